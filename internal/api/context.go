package api

import "github.com/gin-gonic/gin"

// userIDFromContext returns the subject id attached by the auth middleware.
func userIDFromContext(c *gin.Context) (uint, bool) {
	value, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}
