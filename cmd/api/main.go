package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"goabroad/internal/api"
	"goabroad/internal/auth"
	"goabroad/internal/config"
	"goabroad/internal/database"
	"goabroad/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	logger.Info("database migrated")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	authService, err := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.ResetTokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}
	otpService := auth.NewOTPService(redisClient, cfg.OTP.TTL, cfg.OTP.MaxAttempts, cfg.OTP.ResendPerHourCap)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, cfg, db, asynqClient, authService, otpService, redisClient, logger, storageClient)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("api listening", slog.String("address", address))
	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
