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

// JobHandler handles job posting dashboard requests.
type JobHandler struct {
	store    *store.JobStore
	redis    redis.UniversalClient
	uploader imageUploader
}

// NewJobHandler constructs the handler.
func NewJobHandler(db *gorm.DB, redisClient redis.UniversalClient, storageClient objectStorage, clamdAddr string) *JobHandler {
	return &JobHandler{
		store:    store.NewJobStore(db),
		redis:    redisClient,
		uploader: imageUploader{storage: storageClient, clamdAddr: clamdAddr},
	}
}

const jobImagePrefix = "jobs"
const jobImagePlaceholder = "/images/placeholder-job.jpg"

func listFilterFromQuery(c *gin.Context) (store.ListFilter, error) {
	filter := store.ListFilter{
		Country: c.Query("country"),
		Status:  c.Query("status"),
	}
	if filter.Status != "" && !database.Status(filter.Status).Valid() {
		return filter, fmt.Errorf("unknown status %q", filter.Status)
	}
	if raw := c.Query("featured"); raw != "" {
		featured := raw == "true" || raw == "1"
		filter.Featured = &featured
	}
	return filter, nil
}

// List returns jobs, optionally filtered by country, status and featured.
func (h *JobHandler) List(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	jobs, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "job list fetched", "jobs", jobs)
}

// Get returns one job by id.
func (h *JobHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	job, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, "job fetched", "job", job)
}

// Create inserts a new job, uploading the optional image first.
func (h *JobHandler) Create(c *gin.Context) {
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

	positions, _ := intField(data, "positions")
	if positions < 0 {
		BadRequest(c, "positions must not be negative")
		return
	}
	featured, _ := boolField(data, "featured")

	job := &database.Job{
		Title:               title,
		Country:             country,
		ImageURL:            jobImagePlaceholder,
		Positions:           positions,
		Featured:            featured,
		Requirements:        datatypes.NewJSONSlice(store.NormalizeList(data["requirements"])),
		Benefits:            datatypes.NewJSONSlice(store.NormalizeList(data["benefits"])),
		Status:              status,
	}
	job.Location, _ = stringField(data, "location")
	job.Salary, _ = stringField(data, "salary")
	job.ApplicationDeadline, _ = stringField(data, "applicationDeadline")
	job.EstimatedDeparture, _ = stringField(data, "estimatedDeparture")
	job.Description, _ = stringField(data, "description")
	job.Company, _ = stringField(data, "company")
	job.WorkType, _ = stringField(data, "workType")
	job.WorkingHours, _ = stringField(data, "workingHours")
	job.Overtime, _ = stringField(data, "overtime")
	job.Accommodation, _ = stringField(data, "accommodation")
	job.WorkEnvironment, _ = stringField(data, "workEnvironment")
	job.TrainingPeriod, _ = stringField(data, "trainingPeriod")
	if imageURL, ok := stringField(data, "imageUrl"); ok && strings.TrimSpace(imageURL) != "" {
		job.ImageURL = strings.TrimSpace(imageURL)
	}

	if file := formFile(c, "image"); file != nil {
		url, err := h.uploader.upload(c, file, jobImagePrefix)
		if err != nil {
			FailErr(c, err)
			return
		}
		job.ImageURL = url
	}

	if err := h.store.Create(c.Request.Context(), job); err != nil {
		FailErr(c, err)
		return
	}
	Created(c, "job created", "job", job)
}

// Update applies a partial job mutation. A new image replaces and deletes
// the previous one.
func (h *JobHandler) Update(c *gin.Context) {
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
		"title":               "title",
		"country":             "country",
		"location":            "location",
		"salary":              "salary",
		"applicationDeadline": "application_deadline",
		"estimatedDeparture":  "estimated_departure",
		"description":         "description",
		"company":             "company",
		"workType":            "work_type",
		"workingHours":        "working_hours",
		"overtime":            "overtime",
		"accommodation":       "accommodation",
		"workEnvironment":     "work_environment",
		"trainingPeriod":      "training_period",
		"imageUrl":            "image_url",
	}
	for key, column := range stringColumns {
		if value, ok := stringField(data, key); ok {
			fields[column] = strings.TrimSpace(value)
		}
	}
	if positions, ok := intField(data, "positions"); ok {
		if positions < 0 {
			BadRequest(c, "positions must not be negative")
			return
		}
		fields["positions"] = positions
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
		url, err := h.uploader.upload(c, file, jobImagePrefix)
		if err != nil {
			FailErr(c, err)
			return
		}
		fields["image_url"] = url
		replacedImageURL = current.ImageURL
	}

	job, err := h.store.Update(c.Request.Context(), id, fields)
	if err != nil {
		FailErr(c, err)
		return
	}
	if replacedImageURL != "" {
		h.uploader.deleteByURL(c.Request.Context(), replacedImageURL)
	}
	OK(c, "job updated", "job", job)
}

// Delete removes one job by id.
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		FailErr(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		FailErr(c, err)
		return
	}
	Deleted(c, "job deleted")
}
