package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"goabroad/internal/database"
)

func TestFAQCreate_ThenGetReturnsSameFields(t *testing.T) {
	db := newTestDB(t)
	h := NewFAQHandler(db, newTestRedis(t))

	req := jsonRequest(t, http.MethodPost, "/v1/faqs", map[string]any{
		"question": "How long is the visa process?",
		"answer":   "Usually 4 to 8 weeks.",
		"category": "visa",
	})
	w := runHandler(req, nil, h.Create)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	fields := decodeEnvelope(t, w.Body)
	if !envelopeBool(t, fields, "success") {
		t.Fatalf("expected success=true, body=%s", w.Body.String())
	}
	if got := envelopeString(t, fields, "message"); got != "faq created" {
		t.Fatalf("unexpected message %q", got)
	}

	var created database.FAQ
	if err := json.Unmarshal(fields["faq"], &created); err != nil {
		t.Fatalf("decode created faq: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created faq has no id")
	}
	if created.Status != database.StatusPublic {
		t.Fatalf("expected default status public, got %q", created.Status)
	}

	getReq := jsonRequest(t, http.MethodGet, "/v1/faqs/1", nil)
	getW := runHandler(getReq, gin.Params{{Key: "id", Value: "1"}}, h.Get)
	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", getW.Code, getW.Body.String())
	}

	var fetched database.FAQ
	if err := json.Unmarshal(decodeEnvelope(t, getW.Body)["faq"], &fetched); err != nil {
		t.Fatalf("decode fetched faq: %v", err)
	}
	if fetched.Question != created.Question || fetched.Answer != created.Answer ||
		fetched.Category != created.Category || fetched.Status != created.Status {
		t.Fatalf("fetched faq %+v differs from created %+v", fetched, created)
	}
}

func TestFAQCreate_RejectsUnknownStatus(t *testing.T) {
	h := NewFAQHandler(newTestDB(t), newTestRedis(t))

	req := jsonRequest(t, http.MethodPost, "/v1/faqs", map[string]any{
		"question": "q",
		"answer":   "a",
		"category": "general",
		"status":   "active",
	})
	w := runHandler(req, nil, h.Create)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
	if envelopeBool(t, decodeEnvelope(t, w.Body), "success") {
		t.Fatal("expected success=false")
	}
}

func TestFAQCreate_MissingFields(t *testing.T) {
	h := NewFAQHandler(newTestDB(t), newTestRedis(t))

	req := jsonRequest(t, http.MethodPost, "/v1/faqs", map[string]any{"question": "q"})
	w := runHandler(req, nil, h.Create)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestFAQCreate_DuplicateRequestIDConflicts(t *testing.T) {
	db := newTestDB(t)
	h := NewFAQHandler(db, newTestRedis(t))

	payload := map[string]any{"question": "q", "answer": "a", "category": "general"}

	first := jsonRequest(t, http.MethodPost, "/v1/faqs", payload)
	first.Header.Set("X-Request-ID", "req-42")
	if w := runHandler(first, nil, h.Create); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	replay := jsonRequest(t, http.MethodPost, "/v1/faqs", payload)
	replay.Header.Set("X-Request-ID", "req-42")
	w := runHandler(replay, nil, h.Create)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&database.FAQ{}).Count(&count).Error; err != nil {
		t.Fatalf("count faqs: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 faq after replay, got %d", count)
	}
}

func TestFAQDelete_MissingIDReturnsNotFoundEnvelope(t *testing.T) {
	h := NewFAQHandler(newTestDB(t), newTestRedis(t))

	req := jsonRequest(t, http.MethodDelete, "/v1/faqs/99", nil)
	w := runHandler(req, gin.Params{{Key: "id", Value: "99"}}, h.Delete)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%s", w.Code, w.Body.String())
	}
	fields := decodeEnvelope(t, w.Body)
	if envelopeBool(t, fields, "success") {
		t.Fatal("expected success=false")
	}
	if envelopeString(t, fields, "message") == "" {
		t.Fatal("expected a message in the error envelope")
	}
}

func TestFAQUpdate_NoFields(t *testing.T) {
	h := NewFAQHandler(newTestDB(t), newTestRedis(t))

	req := jsonRequest(t, http.MethodPut, "/v1/faqs/1", map[string]any{})
	w := runHandler(req, gin.Params{{Key: "id", Value: "1"}}, h.Update)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}
