package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/internal/logging"
	"github.com/taskmaster-dev/taskmaster/internal/services"
)

// respondError maps the service error taxonomy onto HTTP status codes.
// Unexpected errors are logged and hidden behind a generic message.
func respondError(ctx *gin.Context, err error, action string) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		body := gin.H{"error": validationErr.Message}
		if validationErr.Field != "" {
			body["field"] = validationErr.Field
		}
		ctx.JSON(http.StatusBadRequest, body)
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logging.Logger.WithError(err).WithField("action", action).Error("request failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}
