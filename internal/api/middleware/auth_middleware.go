package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"goabroad/internal/auth"
)

// AccessTokenCookieName is the httpOnly cookie the dashboards authenticate
// with. Bearer headers are the fallback for API clients.
const AccessTokenCookieName = "access-token"

// TokenBlacklistKeyPrefix namespaces revoked token ids in redis.
const TokenBlacklistKeyPrefix = "auth:token:blacklist:"

func abortPleaseLogin(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Please login"})
}

// ExtractToken reads the access token from the cookie, then the
// Authorization header.
func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookieName); err == nil && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token)
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware verifies the access token and attaches userID to the
// context. Tokens revoked by logout are rejected via the redis blacklist.
func AuthMiddleware(authService *auth.Service, redisClient redis.UniversalClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			abortPleaseLogin(c)
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil || claims.TokenType != auth.TokenTypeAccess {
			abortPleaseLogin(c)
			return
		}

		if claims.ID != "" && redisClient != nil {
			revoked, err := isTokenRevoked(c.Request.Context(), redisClient, claims.ID)
			if err == nil && revoked {
				abortPleaseLogin(c)
				return
			}
		}

		c.Set("userID", claims.UserID)
		c.Set("tokenID", claims.ID)
		c.Next()
	}
}

func isTokenRevoked(ctx context.Context, client redis.UniversalClient, jti string) (bool, error) {
	err := client.Get(ctx, TokenBlacklistKeyPrefix+jti).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return false, err
}
