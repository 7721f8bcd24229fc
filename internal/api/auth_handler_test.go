package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"goabroad/internal/api/middleware"
	"goabroad/internal/auth"
	"goabroad/internal/database"
)

type authEnv struct {
	router      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	authService *auth.Service
	otpService  *auth.OTPService
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	redisClient := newTestRedis(t)
	authService := newTestAuthService(t)
	otpService := auth.NewOTPService(redisClient, 5*time.Minute, 5, 5)

	h := NewAuthHandler(db, authService, otpService, redisClient, nil, nil, 10, 3, 15*time.Minute, "")

	router := gin.New()
	authGroup := router.Group("/v1/auth")
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout)
	authGroup.POST("/forgot-password", h.ForgotPassword)
	authGroup.POST("/verify-otp", h.VerifyOTP)
	authGroup.POST("/reset-password", h.ResetPassword)
	authGroup.GET("/me", middleware.AuthMiddleware(authService, redisClient), h.Me)

	return &authEnv{
		router:      router,
		db:          db,
		redisClient: redisClient,
		authService: authService,
		otpService:  otpService,
	}
}

func (e *authEnv) seedUser(t *testing.T, email, password string, status database.UserStatus) database.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := database.User{
		Name:         "Test Admin",
		Email:        email,
		PasswordHash: hashed,
		Status:       status,
	}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *authEnv) serve(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func accessCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.AccessTokenCookieName {
			return cookie
		}
	}
	return nil
}

func TestLogin_SuccessSetsCookie(t *testing.T) {
	env := newAuthEnv(t)
	env.seedUser(t, "admin@example.com", "password1234", database.UserStatusActive)

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    "Admin@Example.com",
		"password": "password1234",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	fields := decodeEnvelope(t, w.Body)
	if !envelopeBool(t, fields, "success") {
		t.Fatal("expected success=true")
	}
	if envelopeString(t, fields, "accessToken") == "" {
		t.Fatal("expected an accessToken in the body")
	}

	cookie := accessCookie(w)
	if cookie == nil {
		t.Fatal("expected access-token cookie")
	}
	if !cookie.HttpOnly {
		t.Fatal("cookie must be httpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie samesite = %v, want lax", cookie.SameSite)
	}

	var user database.User
	if err := json.Unmarshal(fields["user"], &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("user email = %q", user.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newAuthEnv(t)
	env.seedUser(t, "admin@example.com", "password1234", database.UserStatusActive)

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "not-the-password",
	}))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
	fields := decodeEnvelope(t, w.Body)
	if got := envelopeString(t, fields, "message"); got != "Please login" {
		t.Fatalf("message = %q, want %q", got, "Please login")
	}
}

func TestLogin_BannedAccount(t *testing.T) {
	env := newAuthEnv(t)
	env.seedUser(t, "banned@example.com", "password1234", database.UserStatusBanned)

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    "banned@example.com",
		"password": "password1234",
	}))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
	if got := envelopeString(t, decodeEnvelope(t, w.Body), "message"); got != "account banned" {
		t.Fatalf("message = %q", got)
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	env := newAuthEnv(t)
	env.seedUser(t, "admin@example.com", "password1234", database.UserStatusActive)

	for i := 0; i < 3; i++ {
		w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
			"email":    "admin@example.com",
			"password": "wrong",
		}))
		if w.Code != http.StatusForbidden {
			t.Fatalf("failure %d: expected 403 got %d", i+1, w.Code)
		}
	}

	// The lock now rejects even the correct password.
	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    "admin@example.com",
		"password": "password1234",
	}))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLogin_PendingAccountIssuesActivationCode(t *testing.T) {
	env := newAuthEnv(t)
	env.seedUser(t, "new@example.com", "password1234", database.UserStatusPending)

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    "new@example.com",
		"password": "password1234",
	}))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
	if got := envelopeString(t, decodeEnvelope(t, w.Body), "message"); got != "account not activated, verification code sent" {
		t.Fatalf("message = %q", got)
	}

	// An OTP record now exists for the address.
	exists, err := env.redisClient.Exists(t.Context(), "otp:code:new@example.com").Result()
	if err != nil {
		t.Fatalf("check otp record: %v", err)
	}
	if exists != 1 {
		t.Fatal("expected an otp record after pending login")
	}
}

func TestVerifyOTP_ActivationFlipsStatus(t *testing.T) {
	env := newAuthEnv(t)
	user := env.seedUser(t, "new@example.com", "password1234", database.UserStatusPending)

	code, err := env.otpService.Issue(t.Context(), user.Email, auth.OTPPurposeActivateAccount)
	if err != nil {
		t.Fatalf("issue otp: %v", err)
	}

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/verify-otp", map[string]any{
		"email": user.Email,
		"code":  code,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var stored database.User
	if err := env.db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Status != database.UserStatusActive {
		t.Fatalf("status = %q, want active", stored.Status)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := newAuthEnv(t)
	user := env.seedUser(t, "admin@example.com", "old-password-1", database.UserStatusActive)

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/forgot-password", map[string]any{
		"email": user.Email,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("forgot-password: expected 200 got %d", w.Code)
	}

	code, err := env.redisClient.HGet(t.Context(), "otp:code:admin@example.com", "code").Result()
	if err != nil {
		t.Fatalf("read issued code: %v", err)
	}

	verifyW := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/verify-otp", map[string]any{
		"email": user.Email,
		"code":  code,
	}))
	if verifyW.Code != http.StatusOK {
		t.Fatalf("verify-otp: expected 200 got %d body=%s", verifyW.Code, verifyW.Body.String())
	}
	resetToken := envelopeString(t, decodeEnvelope(t, verifyW.Body), "resetToken")
	if resetToken == "" {
		t.Fatal("expected a resetToken for a reset-password code")
	}

	resetW := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/reset-password", map[string]any{
		"resetToken": resetToken,
		"password":   "brand-new-password",
	}))
	if resetW.Code != http.StatusOK {
		t.Fatalf("reset-password: expected 200 got %d body=%s", resetW.Code, resetW.Body.String())
	}

	loginW := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/login", map[string]any{
		"email":    user.Email,
		"password": "brand-new-password",
	}))
	if loginW.Code != http.StatusOK {
		t.Fatalf("login with new password: expected 200 got %d body=%s", loginW.Code, loginW.Body.String())
	}
}

func TestResetPassword_RejectsAccessToken(t *testing.T) {
	env := newAuthEnv(t)
	user := env.seedUser(t, "admin@example.com", "password1234", database.UserStatusActive)

	accessToken, err := env.authService.GenerateAccessToken(user.ID)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/reset-password", map[string]any{
		"resetToken": accessToken,
		"password":   "brand-new-password",
	}))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestForgotPassword_UnknownAddressDoesNotReveal(t *testing.T) {
	env := newAuthEnv(t)

	w := env.serve(t, jsonRequest(t, http.MethodPost, "/v1/auth/forgot-password", map[string]any{
		"email": "nobody@example.com",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	env := newAuthEnv(t)
	user := env.seedUser(t, "admin@example.com", "password1234", database.UserStatusActive)

	token, err := env.authService.GenerateAccessToken(user.ID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	meReq := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+token)
	if w := env.serve(t, meReq); w.Code != http.StatusOK {
		t.Fatalf("me before logout: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	logoutReq := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	logoutReq.Header.Set("Authorization", "Bearer "+token)
	if w := env.serve(t, logoutReq); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	meAgain := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	meAgain.Header.Set("Authorization", "Bearer "+token)
	if w := env.serve(t, meAgain); w.Code != http.StatusForbidden {
		t.Fatalf("me after logout: expected 403 got %d body=%s", w.Code, w.Body.String())
	}
}
