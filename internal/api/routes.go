package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"goabroad/internal/api/middleware"
	"goabroad/internal/auth"
	"goabroad/internal/config"
	"goabroad/internal/storage"
)

// RegisterRoutes wires every handler under /v1 plus the Prometheus endpoint.
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.Service,
	otpService *auth.OTPService,
	redisClient redis.UniversalClient,
	logger *slog.Logger,
	storageClient *storage.Client,
) {
	authHandler := NewAuthHandler(
		db,
		authService,
		otpService,
		redisClient,
		asynqClient,
		logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		cfg.Auth.LoginLockTTL,
		cfg.API.CookieDomain,
	)
	faqHandler := NewFAQHandler(db, redisClient)
	jobHandler := NewJobHandler(db, redisClient, storageClient, cfg.Clamd.Addr)
	programHandler := NewProgramHandler(db, redisClient, storageClient, cfg.Clamd.Addr)
	userHandler := NewUserHandler(db, redisClient, otpService, asynqClient, logger)
	contactHandler := NewContactHandler(db, redisClient, asynqClient, logger)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.WSAllowedOrigins)
	authMiddleware := middleware.AuthMiddleware(authService, redisClient)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/verify-otp", authHandler.VerifyOTP)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}

		faqGroup := v1.Group("/faqs")
		{
			faqGroup.GET("", faqHandler.List)
			faqGroup.GET("/:id", faqHandler.Get)
			faqGroup.POST("", authMiddleware, faqHandler.Create)
			faqGroup.PATCH("/:id", authMiddleware, faqHandler.Update)
			faqGroup.DELETE("/:id", authMiddleware, faqHandler.Delete)
		}

		jobGroup := v1.Group("/jobs")
		{
			jobGroup.GET("", jobHandler.List)
			jobGroup.GET("/:id", jobHandler.Get)
			jobGroup.POST("", authMiddleware, jobHandler.Create)
			jobGroup.PATCH("/:id", authMiddleware, jobHandler.Update)
			jobGroup.DELETE("/:id", authMiddleware, jobHandler.Delete)
		}

		programGroup := v1.Group("/programs")
		{
			programGroup.GET("", programHandler.List)
			programGroup.GET("/:id", programHandler.Get)
			programGroup.POST("", authMiddleware, programHandler.Create)
			programGroup.PATCH("/:id", authMiddleware, programHandler.Update)
			programGroup.DELETE("/:id", authMiddleware, programHandler.Delete)
		}

		userGroup := v1.Group("/users")
		userGroup.Use(authMiddleware)
		{
			userGroup.GET("", userHandler.List)
			userGroup.GET("/:id", userHandler.Get)
			userGroup.POST("", userHandler.Create)
			userGroup.PATCH("/:id", userHandler.Update)
			userGroup.DELETE("/:id", userHandler.Delete)
		}

		contactGroup := v1.Group("/contacts")
		{
			contactGroup.POST("", contactHandler.Submit)
			contactGroup.GET("", authMiddleware, contactHandler.List)
			contactGroup.GET("/:id", authMiddleware, contactHandler.Get)
			contactGroup.PATCH("/:id/resolve/:userId", authMiddleware, contactHandler.Resolve)
			contactGroup.DELETE("/:id", authMiddleware, contactHandler.Delete)
		}
	}
}
