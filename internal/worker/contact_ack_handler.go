package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"goabroad/internal/database"
	"goabroad/internal/tasks"
)

// ContactAckHandler mails an acknowledgement for a submitted inquiry.
type ContactAckHandler struct {
	db     *gorm.DB
	sender Sender
	logger *slog.Logger
}

// NewContactAckHandler constructs the handler.
func NewContactAckHandler(db *gorm.DB, sender Sender, logger *slog.Logger) *ContactAckHandler {
	return &ContactAckHandler{db: db, sender: sender, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *ContactAckHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.ContactAckEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal contact ack payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("contact_id", uint64(payload.ContactID)),
	)

	var contact database.Contact
	if err := h.db.WithContext(ctx).First(&contact, payload.ContactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("contact no longer exists, skipping acknowledgement")
			return nil
		}
		log.Error("query contact failed", slog.Any("error", err))
		return err
	}

	name := payload.Name
	if name == "" {
		name = contact.Name
	}

	subject := "We received your inquiry"
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for reaching out. Our team has received your inquiry and will get back to you shortly.\n",
		name,
	)
	if contact.Program != "" {
		body = fmt.Sprintf(
			"Hi %s,\n\nThanks for your interest in %s. Our team has received your inquiry and will get back to you shortly.\n",
			name,
			contact.Program,
		)
	}

	if err := h.sender.Send(ctx, payload.Email, subject, body); err != nil {
		log.Error("send contact ack email failed", slog.Any("error", err))
		return err
	}

	log.Info("contact acknowledgement sent")
	return nil
}
