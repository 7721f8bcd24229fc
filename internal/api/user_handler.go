package api

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"goabroad/internal/api/middleware"
	"goabroad/internal/auth"
	"goabroad/internal/database"
	"goabroad/internal/store"
	"goabroad/internal/tasks"
)

// UserHandler handles admin account dashboard requests.
type UserHandler struct {
	store       *store.UserStore
	redis       redis.UniversalClient
	otpService  *auth.OTPService
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewUserHandler constructs the handler.
func NewUserHandler(db *gorm.DB, redisClient redis.UniversalClient, otpService *auth.OTPService, asynqClient *asynq.Client, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		store:       store.NewUserStore(db),
		redis:       redisClient,
		otpService:  otpService,
		asynqClient: asynqClient,
		logger:      logger,
	}
}

// List returns all admin accounts.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.List(c.Request.Context())
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "user list fetched", "users", users)
}

// Get returns one user by id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	user, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "user fetched", "user", user)
}

// Create registers a pending account and emails an activation code.
func (h *UserHandler) Create(c *gin.Context) {
	data, err := parseRequestData(c)
	if err != nil {
		FailErr(c, err)
		return
	}
	if !ensureIdempotent(c, h.redis) {
		return
	}

	email, _ := stringField(data, "email")
	password, _ := stringField(data, "password")
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		BadRequest(c, "email and password are required")
		return
	}
	if len(password) < 8 {
		BadRequest(c, "password must be at least 8 characters")
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		FailErr(c, err)
		return
	}

	user := &database.User{
		Email:        email,
		PasswordHash: hashed,
		Status:       database.UserStatusPending,
	}
	user.Name, _ = stringField(data, "name")
	user.Phone, _ = stringField(data, "phone")
	if raw, ok := stringField(data, "status"); ok {
		status := database.UserStatus(raw)
		if !status.Valid() {
			BadRequest(c, fmt.Sprintf("unknown status %q", raw))
			return
		}
		user.Status = status
	}

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, user); err != nil {
		FailErr(c, err)
		return
	}

	if user.Status == database.UserStatusPending {
		h.sendActivationCode(c, user.Email)
	}

	Created(c, "user created", "user", user)
}

// Update applies a partial user mutation. A new password is re-hashed.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	data, err := parseRequestData(c)
	if err != nil {
		FailErr(c, err)
		return
	}

	fields := map[string]any{}
	if name, ok := stringField(data, "name"); ok {
		fields["name"] = strings.TrimSpace(name)
	}
	if email, ok := stringField(data, "email"); ok {
		fields["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	if phone, ok := stringField(data, "phone"); ok {
		fields["phone"] = strings.TrimSpace(phone)
	}
	if password, ok := stringField(data, "password"); ok && password != "" {
		if len(password) < 8 {
			BadRequest(c, "password must be at least 8 characters")
			return
		}
		hashed, err := auth.HashPassword(password)
		if err != nil {
			FailErr(c, err)
			return
		}
		fields["password_hash"] = hashed
	}
	if raw, ok := stringField(data, "status"); ok {
		status := database.UserStatus(raw)
		if !status.Valid() {
			BadRequest(c, fmt.Sprintf("unknown status %q", raw))
			return
		}
		fields["status"] = status
	}
	if len(fields) == 0 {
		BadRequest(c, "no fields to update")
		return
	}

	user, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "user updated", "user", user)
}

// Delete removes one user by id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		FailErr(c, err)
		return
	}
	Deleted(c, "user deleted")
}

func (h *UserHandler) sendActivationCode(c *gin.Context, email string) {
	log := middleware.LoggerFromContext(c)
	if h.otpService == nil || h.asynqClient == nil {
		return
	}

	ctx := c.Request.Context()
	code, err := h.otpService.Issue(ctx, email, auth.OTPPurposeActivateAccount)
	if err != nil {
		log.Error("issue activation otp failed", slog.Any("error", err))
		return
	}

	task, err := tasks.NewOTPEmailTask(email, code, string(auth.OTPPurposeActivateAccount), middleware.GetCorrelationID(c))
	if err != nil {
		log.Error("build otp email task failed", slog.Any("error", err))
		return
	}
	if _, err := h.asynqClient.EnqueueContext(ctx, task); err != nil {
		log.Error("enqueue otp email failed", slog.Any("error", err))
	}
}
