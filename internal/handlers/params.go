package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/progress-api/internal/errors"
	"github.com/yukikurage/progress-api/internal/middleware"
)

// requireUser returns the authenticated user ID or writes a 401.
func requireUser(c *gin.Context) (uint64, bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, false
	}
	return userID, true
}

// requireID returns the :id path parameter parsed by middleware.RequireIDParam,
// parsing it directly when the middleware did not run.
func requireID(c *gin.Context, label string) (uint64, bool) {
	if id, ok := middleware.GetResourceID(c); ok {
		return id, true
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// optionalIDQuery parses an optional numeric query filter such as ?project=3.
func optionalIDQuery(c *gin.Context, key string) (*uint64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+key+" filter")
		return nil, false
	}
	return &id, true
}
