package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newOTPService(t *testing.T, maxAttempts, resendCap int) *OTPService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewOTPService(client, 5*time.Minute, maxAttempts, resendCap)
}

func TestOTPIssueVerify_ReturnsStoredPurpose(t *testing.T) {
	svc := newOTPService(t, 5, 5)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "Admin@Example.com", OTPPurposeActivateAccount)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q is not six digits", code)
	}

	// Address lookup is case-insensitive.
	purpose, err := svc.Verify(ctx, "admin@example.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if purpose != OTPPurposeActivateAccount {
		t.Fatalf("purpose = %q, want %q", purpose, OTPPurposeActivateAccount)
	}
}

func TestOTPVerify_ConsumesCode(t *testing.T) {
	svc := newOTPService(t, 5, 5)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "a@b.test", OTPPurposeResetPassword)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(ctx, "a@b.test", code); err != nil {
		t.Fatalf("first verify: %v", err)
	}
	if _, err := svc.Verify(ctx, "a@b.test", code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("second verify err = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPVerify_WrongCode(t *testing.T) {
	svc := newOTPService(t, 5, 5)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "a@b.test", OTPPurposeResetPassword)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if _, err := svc.Verify(ctx, "a@b.test", wrong); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("err = %v, want ErrOTPMismatch", err)
	}

	// The right code still works before the attempt cap is hit.
	if _, err := svc.Verify(ctx, "a@b.test", code); err != nil {
		t.Fatalf("verify after mismatch: %v", err)
	}
}

func TestOTPVerify_AttemptCapInvalidatesCode(t *testing.T) {
	svc := newOTPService(t, 3, 5)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "a@b.test", OTPPurposeResetPassword)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Verify(ctx, "a@b.test", wrong); !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("attempt %d err = %v, want ErrOTPMismatch", i+1, err)
		}
	}
	if _, err := svc.Verify(ctx, "a@b.test", wrong); !errors.Is(err, ErrOTPTooManyAttempts) {
		t.Fatalf("err = %v, want ErrOTPTooManyAttempts", err)
	}

	// The record is gone, even for the correct code.
	if _, err := svc.Verify(ctx, "a@b.test", code); !errors.Is(err, ErrOTPNotFound) {
		t.Fatalf("err = %v, want ErrOTPNotFound", err)
	}
}

func TestOTPIssue_ResendCap(t *testing.T) {
	svc := newOTPService(t, 5, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Issue(ctx, "a@b.test", OTPPurposeResetPassword); err != nil {
			t.Fatalf("issue %d: %v", i+1, err)
		}
	}
	if _, err := svc.Issue(ctx, "a@b.test", OTPPurposeResetPassword); !errors.Is(err, ErrOTPResendCapped) {
		t.Fatalf("err = %v, want ErrOTPResendCapped", err)
	}
}

func TestOTPIssue_ReplacesOutstandingCode(t *testing.T) {
	svc := newOTPService(t, 5, 5)
	ctx := context.Background()

	first, err := svc.Issue(ctx, "a@b.test", OTPPurposeActivateAccount)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, err := svc.Issue(ctx, "a@b.test", OTPPurposeResetPassword)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}

	if first != second {
		if _, err := svc.Verify(ctx, "a@b.test", first); !errors.Is(err, ErrOTPMismatch) {
			t.Fatalf("old code err = %v, want ErrOTPMismatch", err)
		}
	}
	purpose, err := svc.Verify(ctx, "a@b.test", second)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if purpose != OTPPurposeResetPassword {
		t.Fatalf("purpose = %q, want reset_password", purpose)
	}
}
