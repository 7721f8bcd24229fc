package api

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"goabroad/internal/apperr"
)

// parseRequestData flattens either a JSON body or the text fields of a
// multipart form into one key/value map. File fields are fetched separately
// via formFile. The dashboards send multipart for every mutation, JSON is
// accepted for API clients.
func parseRequestData(c *gin.Context) (map[string]any, error) {
	contentType := c.ContentType()
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperr.Validation("invalid multipart body")
		}
		data := make(map[string]any, len(form.Value))
		for key, values := range form.Value {
			if len(values) > 0 {
				data[key] = values[0]
			}
		}
		return data, nil
	case contentType == "application/json" || contentType == "":
		if c.Request.Body == nil || c.Request.ContentLength == 0 {
			return map[string]any{}, nil
		}
		var data map[string]any
		if err := c.ShouldBindJSON(&data); err != nil {
			return nil, apperr.Validation("invalid json body")
		}
		return data, nil
	default:
		return nil, apperr.Validation("unsupported content type")
	}
}

// formFile returns the named multipart file, or nil when absent or when the
// body is not multipart.
func formFile(c *gin.Context, name string) *multipart.FileHeader {
	file, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// parseIDParam reads the :id route parameter.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return uint(id), nil
}

// stringField reads a flattened field as a string. JSON bodies may carry
// numbers and booleans where multipart carries text, so scalars are coerced.
func stringField(data map[string]any, key string) (string, bool) {
	value, ok := data[key]
	if !ok {
		return "", false
	}
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// intField reads a flattened field as an int.
func intField(data map[string]any, key string) (int, bool) {
	value, ok := data[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// boolField reads a flattened field as a bool.
func boolField(data map[string]any, key string) (bool, bool) {
	value, ok := data[key]
	if !ok {
		return false, false
	}
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}
