package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
)

const ContextKeyResourceID = "resource_id"

// RequireIDParam parses the :id path parameter and stores it in the context.
// label names the resource in the error message, e.g. "task".
func RequireIDParam(label string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+label+" ID")
			c.Abort()
			return
		}

		c.Set(ContextKeyResourceID, id)
		c.Next()
	}
}

// GetResourceID returns the ID stored by RequireIDParam
func GetResourceID(c *gin.Context) (uint64, bool) {
	id, exists := c.Get(ContextKeyResourceID)
	if !exists {
		return 0, false
	}
	v, ok := id.(uint64)
	return v, ok
}
