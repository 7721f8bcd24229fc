package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"goabroad/internal/database"
	"goabroad/internal/store"
)

// ProgramHandler handles study-program dashboard requests.
type ProgramHandler struct {
	store    *store.ProgramStore
	redis    redis.UniversalClient
	uploader imageUploader
}

// NewProgramHandler constructs the handler.
func NewProgramHandler(db *gorm.DB, redisClient redis.UniversalClient, storageClient objectStorage, clamdAddr string) *ProgramHandler {
	return &ProgramHandler{
		store:    store.NewProgramStore(db),
		redis:    redisClient,
		uploader: imageUploader{storage: storageClient, clamdAddr: clamdAddr},
	}
}

const programImagePrefix = "programs"

// List returns programs, optionally filtered by country, status and featured.
func (h *ProgramHandler) List(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	programs, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "program list fetched", "programs", programs)
}

// Get returns one program by id.
func (h *ProgramHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	program, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "program fetched", "program", program)
}

// Create inserts a new program, uploading the optional image first.
func (h *ProgramHandler) Create(c *gin.Context) {
	data, err := parseRequestData(c)
	if err != nil {
		FailErr(c, err)
		return
	}
	if !ensureIdempotent(c, h.redis) {
		return
	}

	title, _ := stringField(data, "title")
	country, _ := stringField(data, "country")
	title = strings.TrimSpace(title)
	country = strings.TrimSpace(country)
	if title == "" || country == "" {
		BadRequest(c, "title and country are required")
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
	featured, _ := boolField(data, "featured")

	program := &database.Program{
		Title:        title,
		Country:      country,
		Featured:     featured,
		Requirements: datatypes.NewJSONSlice(store.NormalizeList(data["requirements"])),
		Benefits:     datatypes.NewJSONSlice(store.NormalizeList(data["benefits"])),
		Status:       status,
	}
	program.Description, _ = stringField(data, "description")
	program.Duration, _ = stringField(data, "duration")
	program.Tuition, _ = stringField(data, "tuition")
	program.Opportunities, _ = stringField(data, "opportunities")
	program.About, _ = stringField(data, "about")
	if imageURL, ok := stringField(data, "imageUrl"); ok {
		program.ImageURL = strings.TrimSpace(imageURL)
	}

	if file := formFile(c, "image"); file != nil {
		url, err := h.uploader.upload(c, file, programImagePrefix)
		if err != nil {
			FailErr(c, err)
			return
		}
		program.ImageURL = url
	}

	if err := h.store.Create(c.Request.Context(), program); err != nil {
		FailErr(c, err)
		return
	}
	Created(c, "program created", "program", program)
}

// Update applies a partial program mutation. A new image replaces and
// deletes the previous one.
func (h *ProgramHandler) Update(c *gin.Context) {
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
	stringColumns := map[string]string{
		"title":         "title",
		"description":   "description",
		"country":       "country",
		"duration":      "duration",
		"tuition":       "tuition",
		"opportunities": "opportunities",
		"about":         "about",
		"imageUrl":      "image_url",
	}
	for key, column := range stringColumns {
		if value, ok := stringField(data, key); ok {
			fields[column] = strings.TrimSpace(value)
		}
	}
	if featured, ok := boolField(data, "featured"); ok {
		fields["featured"] = featured
	}
	if _, ok := data["requirements"]; ok {
		fields["requirements"] = datatypes.NewJSONSlice(store.NormalizeList(data["requirements"]))
	}
	if _, ok := data["benefits"]; ok {
		fields["benefits"] = datatypes.NewJSONSlice(store.NormalizeList(data["benefits"]))
	}
	if raw, ok := stringField(data, "status"); ok {
		status := database.Status(raw)
		if !status.Valid() {
			BadRequest(c, fmt.Sprintf("unknown status %q", raw))
			return
		}
		fields["status"] = status
	}

	file := formFile(c, "image")
	if len(fields) == 0 && file == nil {
		BadRequest(c, "no fields to update")
		return
	}

	var replacedImageURL string
	if file != nil {
		current, err := h.store.Get(c.Request.Context(), id)
		if err != nil {
			FailErr(c, err)
			return
		}
		url, err := h.uploader.upload(c, file, programImagePrefix)
		if err != nil {
			FailErr(c, err)
			return
		}
		fields["image_url"] = url
		replacedImageURL = current.ImageURL
	}

	program, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		FailErr(c, err)
		return
	}
	if replacedImageURL != "" {
		h.uploader.deleteByURL(c.Request.Context(), replacedImageURL)
	}
	OK(c, "program updated", "program", program)
}

// Delete removes one program by id.
func (h *ProgramHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		FailErr(c, err)
		return
	}
	Deleted(c, "program deleted")
}
