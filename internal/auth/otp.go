package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPPurpose records why a code was issued. The server decides the
// post-verification branch from this stored value; clients never supply it.
type OTPPurpose string

const (
	OTPPurposeActivateAccount OTPPurpose = "activate_account"
	OTPPurposeResetPassword   OTPPurpose = "reset_password"
)

var (
	ErrOTPNotFound        = errors.New("otp not found or expired")
	ErrOTPMismatch        = errors.New("otp does not match")
	ErrOTPTooManyAttempts = errors.New("too many otp attempts")
	ErrOTPResendCapped    = errors.New("otp resend limit reached")
)

const (
	otpKeyPrefix       = "otp:code:"
	otpResendKeyPrefix = "otp:resend:"
)

// OTPService issues and verifies 6-digit one-time passwords backed by Redis.
type OTPService struct {
	redis            redis.UniversalClient
	ttl              time.Duration
	maxAttempts      int
	resendPerHourCap int
}

// NewOTPService constructs the OTP service.
func NewOTPService(client redis.UniversalClient, ttl time.Duration, maxAttempts, resendPerHourCap int) *OTPService {
	return &OTPService{
		redis:            client,
		ttl:              ttl,
		maxAttempts:      maxAttempts,
		resendPerHourCap: resendPerHourCap,
	}
}

// Issue generates a fresh code for the address, replacing any outstanding
// one, and returns it for delivery. The resend cap is enforced per hour.
func (s *OTPService) Issue(ctx context.Context, email string, purpose OTPPurpose) (string, error) {
	email = normalizeEmail(email)

	resendKey := otpResendKeyPrefix + email
	count, err := s.redis.Incr(ctx, resendKey).Result()
	if err != nil {
		return "", fmt.Errorf("count otp resends: %w", err)
	}
	if count == 1 {
		_ = s.redis.Expire(ctx, resendKey, time.Hour).Err()
	}
	if s.resendPerHourCap > 0 && count > int64(s.resendPerHourCap) {
		return "", ErrOTPResendCapped
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}

	key := otpKeyPrefix + email
	pipe := s.redis.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, "code", code, "purpose", string(purpose), "attempts", 0)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	return code, nil
}

// Verify checks a submitted code and, on success, consumes the record and
// returns the purpose stored at issuance.
func (s *OTPService) Verify(ctx context.Context, email, code string) (OTPPurpose, error) {
	email = normalizeEmail(email)
	key := otpKeyPrefix + email

	record, err := s.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("load otp: %w", err)
	}
	if len(record) == 0 {
		return "", ErrOTPNotFound
	}

	attempts, err := s.redis.HIncrBy(ctx, key, "attempts", 1).Result()
	if err != nil {
		return "", fmt.Errorf("count otp attempts: %w", err)
	}
	if s.maxAttempts > 0 && attempts > int64(s.maxAttempts) {
		_ = s.redis.Del(ctx, key).Err()
		return "", ErrOTPTooManyAttempts
	}

	stored := record["code"]
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return "", ErrOTPMismatch
	}

	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("consume otp: %w", err)
	}

	return OTPPurpose(record["purpose"]), nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
