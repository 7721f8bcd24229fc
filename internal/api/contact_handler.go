package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"goabroad/internal/api/middleware"
	"goabroad/internal/database"
	"goabroad/internal/store"
	"goabroad/internal/tasks"
)

// ContactHandler handles inbound inquiries and their dashboard.
type ContactHandler struct {
	store       *store.ContactStore
	userStore   *store.UserStore
	redis       redis.UniversalClient
	asynqClient *asynq.Client
	logger      *slog.Logger
}

// NewContactHandler constructs the handler.
func NewContactHandler(db *gorm.DB, redisClient redis.UniversalClient, asynqClient *asynq.Client, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		store:       store.NewContactStore(db),
		userStore:   store.NewUserStore(db),
		redis:       redisClient,
		asynqClient: asynqClient,
		logger:      logger,
	}
}

// List returns contacts, optionally filtered by status.
func (h *ContactHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !database.ContactStatus(status).Valid() {
		BadRequest(c, fmt.Sprintf("unknown status %q", status))
		return
	}

	contacts, err := h.store.List(c.Request.Context(), status)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "contact list fetched", "contacts", contacts)
}

// Get returns one contact by id.
func (h *ContactHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	contact, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "contact fetched", "contact", contact)
}

// Submit records a public inquiry, notifies watching admins and mails an
// acknowledgement.
func (h *ContactHandler) Submit(c *gin.Context) {
	data, err := parseRequestData(c)
	if err != nil {
		FailErr(c, err)
		return
	}
	if !ensureIdempotent(c, h.redis) {
		return
	}

	name, _ := stringField(data, "name")
	email, _ := stringField(data, "email")
	message, _ := stringField(data, "message")
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(message) == "" {
		BadRequest(c, "name, email and message are required")
		return
	}

	contact := &database.Contact{
		Name:    name,
		Email:   email,
		Message: message,
	}
	contact.Phone, _ = stringField(data, "phone")
	contact.Program, _ = stringField(data, "program")

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, contact); err != nil {
		FailErr(c, err)
		return
	}

	h.publishNotify(c, contact)
	h.enqueueAck(c, contact)

	Created(c, "contact submitted", "contact", contact)
}

// Resolve marks a contact handled by the admin named in the route.
func (h *ContactHandler) Resolve(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}
	resolverID, err := parseIDParam(c, "userId")
	if err != nil {
		FailErr(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.userStore.Get(ctx, resolverID); err != nil {
		FailErr(c, err)
		return
	}

	contact, err := h.store.Resolve(ctx, id, resolverID)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "contact resolved", "contact", contact)
}

// Delete removes one contact by id.
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		FailErr(c, err)
		return
	}
	Deleted(c, "contact deleted")
}

func (h *ContactHandler) publishNotify(c *gin.Context, contact *database.Contact) {
	if h.redis == nil {
		return
	}
	log := middleware.LoggerFromContext(c)

	payload, err := json.Marshal(ContactNotifyMessage{
		Type:      "contact_submitted",
		ContactID: contact.ID,
		Name:      contact.Name,
		Program:   contact.Program,
	})
	if err != nil {
		log.Error("marshal contact notify failed", slog.Any("error", err))
		return
	}
	if err := h.redis.Publish(c.Request.Context(), contactNotifyChannel, payload).Err(); err != nil {
		log.Error("publish contact notify failed", slog.Any("error", err))
	}
}

func (h *ContactHandler) enqueueAck(c *gin.Context, contact *database.Contact) {
	if h.asynqClient == nil {
		return
	}
	log := middleware.LoggerFromContext(c)

	task, err := tasks.NewContactAckEmailTask(contact.ID, contact.Email, contact.Name, middleware.GetCorrelationID(c))
	if err != nil {
		log.Error("build contact ack task failed", slog.Any("error", err))
		return
	}
	if _, err := h.asynqClient.EnqueueContext(c.Request.Context(), task); err != nil {
		log.Error("enqueue contact ack failed", slog.Any("error", err))
	}
}
