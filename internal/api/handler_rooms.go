package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomshare-backend/internal/mw"
)

type createRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	Nickname string `json:"nickname" binding:"required"`
}

// CreateRoom handles POST /api/rooms.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.household.CreateRoom(c.Request.Context(), req.Name, req.Address, mw.UserID(c), req.Nickname)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

type joinRoomRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

// JoinRoom handles POST /api/rooms/:room_id/members.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.household.JoinRoom(c.Request.Context(), c.Param("room_id"), mw.UserID(c), req.Nickname)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

// GetMembers handles GET /api/rooms/:room_id/members.
func (h *Handler) GetMembers(c *gin.Context) {
	members, err := h.household.ListMembers(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
