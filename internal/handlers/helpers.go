package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
)

// parseIDParam reads a numeric path parameter; on failure it writes the 404
// envelope and returns false.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.NotFound(c, "Resource not found")
		return 0, false
	}
	return id, true
}
