package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"goabroad/internal/database"
	"goabroad/internal/tasks"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newWorkerDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&database.Contact{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestOTPEmailHandler_SendsActivationMail(t *testing.T) {
	sender := &fakeSender{}
	h := NewOTPEmailHandler(sender, slog.Default())

	task, err := tasks.NewOTPEmailTask("new@example.com", "123456", "activate_account", "corr-1")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.To != "new@example.com" {
		t.Fatalf("to = %q", mail.To)
	}
	if !strings.Contains(strings.ToLower(mail.Subject), "activate") {
		t.Fatalf("subject %q does not mention activation", mail.Subject)
	}
	if !strings.Contains(mail.Body, "123456") {
		t.Fatalf("body does not contain the code: %q", mail.Body)
	}
}

func TestOTPEmailHandler_ResetSubject(t *testing.T) {
	sender := &fakeSender{}
	h := NewOTPEmailHandler(sender, slog.Default())

	task, err := tasks.NewOTPEmailTask("a@b.test", "654321", "reset_password", "corr-2")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}
	if !strings.Contains(strings.ToLower(sender.sent[0].Subject), "reset") {
		t.Fatalf("subject %q does not mention reset", sender.sent[0].Subject)
	}
}

func TestOTPEmailHandler_MalformedPayload(t *testing.T) {
	h := NewOTPEmailHandler(&fakeSender{}, slog.Default())
	task := asynq.NewTask(tasks.TypeOTPEmail, []byte("{not json"))
	if err := h.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected an error for a malformed payload")
	}
}

func TestContactAckHandler_SendsAcknowledgement(t *testing.T) {
	db := newWorkerDB(t)
	contact := database.Contact{
		Name:    "Maria",
		Email:   "maria@example.com",
		Message: "hello",
		Program: "Canada Co-op",
		Status:  database.ContactStatusPending,
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("seed contact: %v", err)
	}

	sender := &fakeSender{}
	h := NewContactAckHandler(db, sender, slog.Default())

	task, err := tasks.NewContactAckEmailTask(contact.ID, contact.Email, contact.Name, "corr-3")
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.To != "maria@example.com" {
		t.Fatalf("to = %q", mail.To)
	}
	if !strings.Contains(mail.Body, "Maria") || !strings.Contains(mail.Body, "Canada Co-op") {
		t.Fatalf("body missing name or program: %q", mail.Body)
	}
}

func TestContactAckHandler_SkipsDeletedContact(t *testing.T) {
	db := newWorkerDB(t)
	sender := &fakeSender{}
	h := NewContactAckHandler(db, sender, slog.Default())

	payload, err := json.Marshal(tasks.ContactAckEmailPayload{ContactID: 99, Email: "x@y.test", Name: "X"})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	task := asynq.NewTask(tasks.TypeContactAckEmail, payload)

	if err := h.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected nil error for a vanished contact, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no mail, got %d", len(sender.sent))
	}
}
