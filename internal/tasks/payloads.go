package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants keep the queue producer and consumer in agreement.
const (
	TypeOTPEmail        = "email:otp"
	TypeContactAckEmail = "email:contact_ack"
)

// OTPEmailPayload describes a one-time-password delivery.
type OTPEmailPayload struct {
	Email         string `json:"email"`
	Code          string `json:"code"`
	Purpose       string `json:"purpose"`
	CorrelationID string `json:"correlation_id"`
}

// NewOTPEmailTask builds a task that mails a verification code.
func NewOTPEmailTask(email, code, purpose, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(OTPEmailPayload{
		Email:         email,
		Code:          code,
		Purpose:       purpose,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOTPEmail, payload), nil
}

// ContactAckEmailPayload describes the acknowledgement sent to someone who
// submitted an inquiry.
type ContactAckEmailPayload struct {
	ContactID     uint   `json:"contact_id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	CorrelationID string `json:"correlation_id"`
}

// NewContactAckEmailTask builds a task that mails a contact acknowledgement.
func NewContactAckEmailTask(contactID uint, email, name, correlationID string) (*asynq.Task, error) {
	payload, err := json.Marshal(ContactAckEmailPayload{
		ContactID:     contactID,
		Email:         email,
		Name:          name,
		CorrelationID: correlationID,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeContactAckEmail, payload), nil
}
