package auth

import (
	"testing"
	"time"
)

func newService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService("unit-test-secret", time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newService(t)

	token, err := svc.GenerateAccessToken(7)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user id = %d, want 7", claims.UserID)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %q, want %q", claims.TokenType, TokenTypeAccess)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatal("expected a future expiry")
	}
}

func TestResetTokenCarriesResetType(t *testing.T) {
	svc := newService(t)

	token, err := svc.GenerateResetToken(3)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.TokenType != TokenTypeReset {
		t.Fatalf("token type = %q, want %q", claims.TokenType, TokenTypeReset)
	}
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	svc := newService(t)
	other, err := NewService("a-different-secret", time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := svc.GenerateAccessToken(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc, err := NewService("unit-test-secret", time.Millisecond, time.Millisecond)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	token, err := svc.GenerateAccessToken(1)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail for an expired token")
	}
}

func TestNewService_RequiresSecret(t *testing.T) {
	if _, err := NewService("", time.Hour, time.Hour); err == nil {
		t.Fatal("expected an error for empty secret")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Fatal("expected mismatched password to fail")
	}
}
