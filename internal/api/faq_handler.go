package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"goabroad/internal/database"
	"goabroad/internal/store"
)

// FAQHandler handles FAQ dashboard requests.
type FAQHandler struct {
	store *store.FAQStore
	redis redis.UniversalClient
}

// NewFAQHandler constructs the handler.
func NewFAQHandler(db *gorm.DB, redisClient redis.UniversalClient) *FAQHandler {
	return &FAQHandler{store: store.NewFAQStore(db), redis: redisClient}
}

// List returns FAQs, optionally filtered by category and status.
func (h *FAQHandler) List(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !database.Status(status).Valid() {
		BadRequest(c, fmt.Sprintf("unknown status %q", status))
		return
	}

	faqs, err := h.store.List(c.Request.Context(), c.Query("category"), status)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "faq list fetched", "faqs", faqs)
}

// Get returns one FAQ by id.
func (h *FAQHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	faq, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "faq fetched", "faq", faq)
}

// Create inserts a new FAQ.
func (h *FAQHandler) Create(c *gin.Context) {
	data, err := parseRequestData(c)
	if err != nil {
		FailErr(c, err)
		return
	}
	if !ensureIdempotent(c, h.redis) {
		return
	}

	question, _ := stringField(data, "question")
	answer, _ := stringField(data, "answer")
	category, _ := stringField(data, "category")
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	category = strings.TrimSpace(category)
	if question == "" || answer == "" || category == "" {
		BadRequest(c, "question, answer and category are required")
		return
	}

	status := database.StatusPublic
	if raw, ok := stringField(data, "status"); ok {
		status = database.Status(raw)
		if !status.Valid() {
			BadRequest(c, fmt.Sprintf("unknown status %q", raw))
			return
		}
	}

	faq := &database.FAQ{
		Question: question,
		Answer:   answer,
		Category: category,
		Status:   status,
	}
	if err := h.store.Create(c.Request.Context(), faq); err != nil {
		FailErr(c, err)
		return
	}
	Created(c, "faq created", "faq", faq)
}

// Update applies a partial FAQ mutation.
func (h *FAQHandler) Update(c *gin.Context) {
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
	if question, ok := stringField(data, "question"); ok {
		fields["question"] = strings.TrimSpace(question)
	}
	if answer, ok := stringField(data, "answer"); ok {
		fields["answer"] = strings.TrimSpace(answer)
	}
	if category, ok := stringField(data, "category"); ok {
		fields["category"] = strings.TrimSpace(category)
	}
	if raw, ok := stringField(data, "status"); ok {
		status := database.Status(raw)
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

	faq, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "faq updated", "faq", faq)
}

// Delete removes one FAQ by id.
func (h *FAQHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		FailErr(c, err)
		return
	}
	Deleted(c, "faq deleted")
}
