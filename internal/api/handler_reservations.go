package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roomshare-backend/internal/mw"
	"roomshare-backend/internal/schedule"
)

type createReservationRequest struct {
	CategoryID   string `json:"categoryId" binding:"required"`
	DayOfWeek    *int   `json:"dayOfWeek"`
	IsRecurring  bool   `json:"isRecurring"`
	SpecificDate string `json:"specificDate"` // "2006-01-02", visitor bookings only
	StartHour    int    `json:"startHour"`
	EndHour      int    `json:"endHour" binding:"required"`
}

// CreateReservation handles POST /api/rooms/:room_id/reservations.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	createReq := schedule.CreateRequest{
		RoomID:      c.Param("room_id"),
		CategoryID:  req.CategoryID,
		DayOfWeek:   req.DayOfWeek,
		IsRecurring: req.IsRecurring,
		StartHour:   req.StartHour,
		EndHour:     req.EndHour,
	}
	if req.SpecificDate != "" {
		date, err := time.Parse("2006-01-02", req.SpecificDate)
		if err != nil {
			h.respondError(c, fmt.Errorf("%w: invalid date %q", schedule.ErrInvalidInput, req.SpecificDate))
			return
		}
		createReq.SpecificDate = &date
	}

	slot, err := h.engine.CreateReservation(c.Request.Context(), createReq, mw.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ApproveReservation handles POST /api/reservations/:id/approve.
func (h *Handler) ApproveReservation(c *gin.Context) {
	result, err := h.engine.ApproveReservation(c.Request.Context(), c.Param("id"), mw.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteReservation handles DELETE /api/reservations/:id.
func (h *Handler) DeleteReservation(c *gin.Context) {
	if err := h.engine.DeleteReservation(c.Request.Context(), c.Param("id"), mw.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWeeklySchedules handles GET /api/rooms/:room_id/reservations/weekly.
// Optional query params: week_start (2006-01-02, defaults to all weeks),
// category_id.
func (h *Handler) GetWeeklySchedules(c *gin.Context) {
	var weekStart *time.Time
	if raw := c.Query("week_start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.respondError(c, fmt.Errorf("%w: invalid week_start %q", schedule.ErrInvalidInput, raw))
			return
		}
		weekStart = &parsed
	}

	slots, err := h.engine.ListWeeklySchedules(c.Request.Context(), c.Param("room_id"), weekStart, c.Query("category_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetCurrentWeekSchedules handles GET /api/rooms/:room_id/reservations/current.
func (h *Handler) GetCurrentWeekSchedules(c *gin.Context) {
	slots, err := h.engine.ListCurrentWeekSchedules(c.Request.Context(), c.Param("room_id"), c.Query("category_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetVisitorSchedules handles GET /api/rooms/:room_id/reservations/visitor.
func (h *Handler) GetVisitorSchedules(c *gin.Context) {
	views, err := h.engine.ListVisitorSchedules(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// GetPendingApprovals handles GET /api/rooms/:room_id/reservations/pending.
func (h *Handler) GetPendingApprovals(c *gin.Context) {
	views, err := h.engine.ListPendingApprovals(c.Request.Context(), c.Param("room_id"), mw.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
