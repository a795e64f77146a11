package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sleepycare/backend/internal/apperr"
	"github.com/sleepycare/backend/pkg/logger"
)

// writeError is the single boundary that turns domain failures into HTTP
// responses. Typed errors carry their status and detail verbatim; anything
// else is logged with full detail and reduced to a generic 500.
func writeError(c *gin.Context, err error) {
	if e, ok := apperr.As(err); ok {
		c.JSON(e.Status, gin.H{"detail": e.Detail})
		return
	}
	logger.Errorf("%s %s: unhandled error: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

// writeValidation reports a malformed/missing request body field.
func writeValidation(c *gin.Context, detail string) {
	writeError(c, apperr.Validation(detail))
}

// writeNotFound reports a well-formed id with no matching record.
func writeNotFound(c *gin.Context, detail string) {
	writeError(c, apperr.NotFound(detail))
}
