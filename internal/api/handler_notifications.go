package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"roomshare-backend/internal/mw"
)

// GetNotifications handles GET /api/notifications. Query params:
// unread_only (bool), limit (default 20).
func (h *Handler) GetNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread_only") == "true"
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	notifications, err := h.store.Notifications.ListByUser(c.Request.Context(), mw.UserID(c), unreadOnly, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationsRead handles POST /api/notifications/read.
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	if err := h.store.Notifications.MarkAllRead(c.Request.Context(), mw.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
