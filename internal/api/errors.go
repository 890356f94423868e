package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roomshare-backend/internal/schedule"
)

// respondError maps engine errors to HTTP statuses. Unclassified errors
// are logged and reported as 500 without leaking internals.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, schedule.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, schedule.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, schedule.ErrInvalidInput),
		errors.Is(err, schedule.ErrInvalidState),
		errors.Is(err, schedule.ErrAlreadyApproved):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
