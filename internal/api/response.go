package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goabroad/internal/apperr"
)

// Every response uses the envelope the dashboards expect:
// {success, message, <entityKey>} on success, {success, message} on failure.

func respond(c *gin.Context, status int, message, entityKey string, value any) {
	body := gin.H{"success": true, "message": message}
	if entityKey != "" {
		body[entityKey] = value
	}
	c.JSON(status, body)
}

func OK(c *gin.Context, message, entityKey string, value any) {
	respond(c, http.StatusOK, message, entityKey, value)
}

func Created(c *gin.Context, message, entityKey string, value any) {
	respond(c, http.StatusCreated, message, entityKey, value)
}

// Deleted standardizes delete responses on 200 with a body.
func Deleted(c *gin.Context, message string) {
	respond(c, http.StatusOK, message, "", nil)
}

func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// FailErr maps a typed application error onto the failure envelope. Unknown
// errors become an opaque 500.
func FailErr(c *gin.Context, err error) {
	appErr := apperr.From(err)
	Fail(c, appErr.Status, appErr.Message)
}

func BadRequest(c *gin.Context, message string) { Fail(c, http.StatusBadRequest, message) }
func Conflict(c *gin.Context, message string)   { Fail(c, http.StatusConflict, message) }
func Internal(c *gin.Context, message string)   { Fail(c, http.StatusInternalServerError, message) }

// AbortPleaseLogin rejects an unauthenticated mutating request.
func AbortPleaseLogin(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Please login"})
}
