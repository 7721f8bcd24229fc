package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"goabroad/internal/apperr"
	"goabroad/internal/api/middleware"
	"goabroad/internal/auth"
	"goabroad/internal/database"
	"goabroad/internal/store"
	"goabroad/internal/tasks"
)

// AuthHandler handles login, logout and the OTP-driven flows.
type AuthHandler struct {
	users                 *store.UserStore
	authService           *auth.Service
	otpService            *auth.OTPService
	redis                 redis.UniversalClient
	asynqClient           *asynq.Client
	logger                *slog.Logger
	loginRateLimitPerHour int
	loginLockThreshold    int
	loginLockTTL          time.Duration
	cookieDomain          string
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(
	db *gorm.DB,
	authService *auth.Service,
	otpService *auth.OTPService,
	redisClient redis.UniversalClient,
	asynqClient *asynq.Client,
	logger *slog.Logger,
	loginRateLimitPerHour int,
	loginLockThreshold int,
	loginLockTTL time.Duration,
	cookieDomain string,
) *AuthHandler {
	return &AuthHandler{
		users:                 store.NewUserStore(db),
		authService:           authService,
		otpService:            otpService,
		redis:                 redisClient,
		asynqClient:           asynqClient,
		logger:                logger,
		loginRateLimitPerHour: loginRateLimitPerHour,
		loginLockThreshold:    loginLockThreshold,
		loginLockTTL:          loginLockTTL,
		cookieDomain:          cookieDomain,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials, sets the access-token cookie and returns the
// token for bearer clients.
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	// Rate limit: per IP+email per hour.
	rateKey := "rate:login:" + ip + ":" + email + ":" + time.Now().UTC().Format("2006010215")
	count, err := incrWithTTL(ctx, h.redis, rateKey, time.Hour)
	if err != nil {
		count = 0
	}
	if h.loginRateLimitPerHour > 0 && count > int64(h.loginRateLimitPerHour) {
		Fail(c, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	// Lockout check.
	lockKey := "lock:login:" + email
	if ttl, _ := h.redis.TTL(ctx, lockKey).Result(); ttl > 0 {
		Fail(c, http.StatusTooManyRequests, "account temporarily locked")
		return
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.From(err).Status == http.StatusNotFound {
			logger.Info("login failed: user not found")
			_ = h.incrementLoginFail(ctx, email)
			AbortPleaseLogin(c)
			return
		}
		logger.Error("login query failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Info("login failed: password mismatch", slog.Uint64("user_id", uint64(user.ID)))
		_ = h.incrementLoginFail(ctx, email)
		AbortPleaseLogin(c)
		return
	}

	switch user.Status {
	case database.UserStatusBanned:
		logger.Info("login rejected: account banned", slog.Uint64("user_id", uint64(user.ID)))
		Fail(c, http.StatusForbidden, "account banned")
		return
	case database.UserStatusPending:
		logger.Info("login deferred: account pending activation", slog.Uint64("user_id", uint64(user.ID)))
		h.issueAndMailOTP(c, user.Email, auth.OTPPurposeActivateAccount)
		Fail(c, http.StatusForbidden, "account not activated, verification code sent")
		return
	}

	// Successful login clears the failure counter.
	_ = h.redis.Del(ctx, "lock:login:fail:"+email).Err()

	token, err := h.authService.GenerateAccessToken(user.ID)
	if err != nil {
		logger.Error("generate access token failed", slog.Any("error", err))
		Internal(c, "internal error")
		return
	}

	h.setAccessCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "login successful",
		"accessToken": token,
		"user":        user,
	})
}

// Logout blacklists the presented token until it would have expired and
// clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		AbortPleaseLogin(c)
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil || claims.TokenType != auth.TokenTypeAccess {
		AbortPleaseLogin(c)
		return
	}

	if claims.ID != "" {
		var ttl time.Duration
		if claims.ExpiresAt != nil {
			ttl = time.Until(claims.ExpiresAt.Time)
		}
		if ttl <= 0 {
			ttl = time.Second
		}
		key := middleware.TokenBlacklistKeyPrefix + claims.ID
		if err := h.redis.Set(c.Request.Context(), key, "revoked", ttl).Err(); err != nil {
			h.loggerFromContext(c).Error("blacklist token failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
	}

	h.clearAccessCookie(c)
	OK(c, "logout successful", "", nil)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		AbortPleaseLogin(c)
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "user fetched", "user", user)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword issues a reset code. The response never reveals whether
// the address is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()

	user, err := h.users.GetByEmail(ctx, email)
	if err == nil && user.Status != database.UserStatusBanned {
		h.issueAndMailOTP(c, user.Email, auth.OTPPurposeResetPassword)
	}

	OK(c, "verification code sent if the account exists", "", nil)
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyOTP checks a submitted code. The stored purpose decides the next
// step: activation flips the account active, a reset yields a short-lived
// reset token.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ctx := c.Request.Context()
	logger := h.loggerFromContext(c).With(slog.String("email", email))

	purpose, err := h.otpService.Verify(ctx, email, req.Code)
	if err != nil {
		h.failOTP(c, err)
		return
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		FailErr(c, err)
		return
	}

	switch purpose {
	case auth.OTPPurposeActivateAccount:
		if user.Status == database.UserStatusPending {
			if _, err := h.users.Update(ctx, user.ID, map[string]any{"status": database.UserStatusActive}); err != nil {
				FailErr(c, err)
				return
			}
		}
		logger.Info("account activated", slog.Uint64("user_id", uint64(user.ID)))
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "account activated",
			"purpose": purpose,
		})
	case auth.OTPPurposeResetPassword:
		resetToken, err := h.authService.GenerateResetToken(user.ID)
		if err != nil {
			logger.Error("generate reset token failed", slog.Any("error", err))
			Internal(c, "internal error")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "code verified",
			"purpose":    purpose,
			"resetToken": resetToken,
		})
	default:
		logger.Error("otp record carries unknown purpose", slog.String("purpose", string(purpose)))
		Internal(c, "internal error")
	}
}

type resetPasswordRequest struct {
	ResetToken string `json:"resetToken" binding:"required"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
}

// ResetPassword consumes a reset token minted by VerifyOTP.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	claims, err := h.authService.ValidateToken(req.ResetToken)
	if err != nil || claims.TokenType != auth.TokenTypeReset {
		Fail(c, http.StatusForbidden, "invalid or expired reset token")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.users.Update(ctx, claims.UserID, map[string]any{"password_hash": hashed}); err != nil {
		FailErr(c, err)
		return
	}

	h.loggerFromContext(c).Info("password reset", slog.Uint64("user_id", uint64(claims.UserID)))
	OK(c, "password reset successful", "", nil)
}

func (h *AuthHandler) failOTP(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrOTPNotFound):
		BadRequest(c, "verification code expired or not found")
	case errors.Is(err, auth.ErrOTPMismatch):
		BadRequest(c, "verification code does not match")
	case errors.Is(err, auth.ErrOTPTooManyAttempts):
		Fail(c, http.StatusTooManyRequests, "too many attempts, request a new code")
	default:
		h.loggerFromContext(c).Error("verify otp failed", slog.Any("error", err))
		Internal(c, "internal error")
	}
}

func (h *AuthHandler) issueAndMailOTP(c *gin.Context, email string, purpose auth.OTPPurpose) {
	logger := h.loggerFromContext(c).With(slog.String("email", email))
	ctx := c.Request.Context()

	code, err := h.otpService.Issue(ctx, email, purpose)
	if err != nil {
		if errors.Is(err, auth.ErrOTPResendCapped) {
			logger.Info("otp resend capped")
		} else {
			logger.Error("issue otp failed", slog.Any("error", err))
		}
		return
	}

	if h.asynqClient == nil {
		return
	}
	task, err := tasks.NewOTPEmailTask(email, code, string(purpose), middleware.GetCorrelationID(c))
	if err != nil {
		logger.Error("build otp email task failed", slog.Any("error", err))
		return
	}
	if _, err := h.asynqClient.EnqueueContext(ctx, task); err != nil {
		logger.Error("enqueue otp email failed", slog.Any("error", err))
	}
}

func (h *AuthHandler) setAccessCookie(c *gin.Context, token string) {
	maxAge := int(h.authService.AccessTokenTTL().Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessTokenCookieName,
		Value:    token,
		MaxAge:   maxAge,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
		Expires:  time.Now().Add(h.authService.AccessTokenTTL()),
	})
}

func (h *AuthHandler) clearAccessCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessTokenCookieName,
		Value:    "",
		MaxAge:   -1,
		Path:     "/",
		Secure:   h.isHTTPSRequest(c),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Domain:   h.getCookieDomain(),
	})
}

func (h *AuthHandler) incrementLoginFail(ctx context.Context, email string) error {
	failKey := "lock:login:fail:" + email
	count, err := h.redis.Incr(ctx, failKey).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		_ = h.redis.Expire(ctx, failKey, h.loginLockTTL).Err()
	}
	if h.loginLockThreshold > 0 && count >= int64(h.loginLockThreshold) {
		_ = h.redis.Set(ctx, "lock:login:"+email, "1", h.loginLockTTL).Err()
	}
	return nil
}

func (h *AuthHandler) loggerFromContext(c *gin.Context) *slog.Logger {
	if logger := middleware.LoggerFromContext(c); logger != nil {
		return logger
	}
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

func (h *AuthHandler) isHTTPSRequest(c *gin.Context) bool {
	if c.Request == nil {
		return false
	}
	if c.Request.TLS != nil {
		return true
	}
	return strings.EqualFold(c.Request.Header.Get("X-Forwarded-Proto"), "https")
}

func (h *AuthHandler) getCookieDomain() string { return strings.TrimSpace(h.cookieDomain) }
