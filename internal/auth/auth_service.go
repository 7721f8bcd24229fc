package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in the token_type claim. Reset tokens are only minted
// after a successful password-reset OTP verification and cannot reach the
// auth middleware.
const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

// Service signs and validates JWTs with the shared HMAC secret.
type Service struct {
	secret         []byte
	accessTokenTTL time.Duration
	resetTokenTTL  time.Duration
}

// TokenClaims carries the business fields the middleware reads.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// NewService validates the secret and constructs the token service.
func NewService(secret string, accessTTL, resetTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if accessTTL <= 0 {
		return nil, errors.New("access token ttl must be positive")
	}
	if resetTTL <= 0 {
		return nil, errors.New("reset token ttl must be positive")
	}
	return &Service{
		secret:         []byte(secret),
		accessTokenTTL: accessTTL,
		resetTokenTTL:  resetTTL,
	}, nil
}

// GenerateAccessToken mints the token stored in the access-token cookie.
// Every token carries a jti so logout can blacklist it.
func (s *Service) GenerateAccessToken(userID uint) (string, error) {
	return s.sign(userID, TokenTypeAccess, s.accessTokenTTL)
}

// GenerateResetToken mints the short-lived token consumed by reset-password.
func (s *Service) GenerateResetToken(userID uint) (string, error) {
	return s.sign(userID, TokenTypeReset, s.resetTokenTTL)
}

func (s *Service) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies a JWT against the shared secret.
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// AccessTokenTTL exposes the access token lifetime for cookie max-age.
func (s *Service) AccessTokenTTL() time.Duration {
	return s.accessTokenTTL
}

// ResetTokenTTL exposes the reset token lifetime.
func (s *Service) ResetTokenTTL() time.Duration {
	return s.resetTokenTTL
}
