package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"goabroad/internal/api/middleware"
	"goabroad/internal/metrics"
)

// NewRouter builds the Gin engine with the ambient middleware chain and the
// health endpoint. Routes are registered separately.
func NewRouter(logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.Recovery(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
