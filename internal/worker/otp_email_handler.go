package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"goabroad/internal/auth"
	"goabroad/internal/tasks"
)

// OTPEmailHandler consumes verification-code delivery tasks.
type OTPEmailHandler struct {
	sender Sender
	logger *slog.Logger
}

// NewOTPEmailHandler constructs the handler.
func NewOTPEmailHandler(sender Sender, logger *slog.Logger) *OTPEmailHandler {
	return &OTPEmailHandler{sender: sender, logger: logger}
}

// ProcessTask implements asynq.Handler.
func (h *OTPEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload tasks.OTPEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal otp email payload failed", slog.Any("error", err))
		return err
	}

	log := h.logger.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("email", payload.Email),
		slog.String("purpose", payload.Purpose),
	)

	subject, body := otpMailContent(payload)
	if err := h.sender.Send(ctx, payload.Email, subject, body); err != nil {
		log.Error("send otp email failed", slog.Any("error", err))
		return err
	}

	log.Info("otp email sent")
	return nil
}

func otpMailContent(payload tasks.OTPEmailPayload) (subject, body string) {
	switch payload.Purpose {
	case string(auth.OTPPurposeActivateAccount):
		subject = "Activate your account"
		body = fmt.Sprintf(
			"Welcome!\n\nYour activation code is %s. It expires in 5 minutes.\n\nIf you did not request this account, you can ignore this email.\n",
			payload.Code,
		)
	default:
		subject = "Reset your password"
		body = fmt.Sprintf(
			"Your password reset code is %s. It expires in 5 minutes.\n\nIf you did not request a reset, you can ignore this email.\n",
			payload.Code,
		)
	}
	return subject, body
}
