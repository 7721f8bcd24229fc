package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"goabroad/internal/auth"
)

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	svc, err := auth.NewService("middleware-test-secret", time.Hour, 10*time.Minute)
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	return svc
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newProtectedRouter(authService *auth.Service, redisClient redis.UniversalClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(authService, redisClient), func(c *gin.Context) {
		userID := c.GetUint("userID")
		c.JSON(http.StatusOK, gin.H{"success": true, "userID": userID})
	})
	return router
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	router := newProtectedRouter(newAuthService(t), newRedis(t))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
	if body := w.Body.String(); body != `{"message":"Please login","success":false}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	authService := newAuthService(t)
	router := newProtectedRouter(authService, newRedis(t))

	token, err := authService.GenerateAccessToken(9)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	authService := newAuthService(t)
	router := newProtectedRouter(authService, newRedis(t))

	token, err := authService.GenerateAccessToken(9)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_RejectsResetToken(t *testing.T) {
	authService := newAuthService(t)
	router := newProtectedRouter(authService, newRedis(t))

	token, err := authService.GenerateResetToken(9)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}

func TestAuthMiddleware_RejectsBlacklistedToken(t *testing.T) {
	authService := newAuthService(t)
	redisClient := newRedis(t)
	router := newProtectedRouter(authService, redisClient)

	token, err := authService.GenerateAccessToken(9)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	claims, err := authService.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if err := redisClient.Set(t.Context(), TokenBlacklistKeyPrefix+claims.ID, "revoked", time.Hour).Err(); err != nil {
		t.Fatalf("blacklist token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}
