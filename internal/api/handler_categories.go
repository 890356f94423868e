package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomshare-backend/internal/mw"
)

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Icon string `json:"icon"`
}

// GetCategories handles GET /api/rooms/:room_id/categories.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.engine.ListCategories(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// CreateCategory handles POST /api/rooms/:room_id/categories.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.engine.CreateCategory(c.Request.Context(), c.Param("room_id"), req.Name, req.Icon, mw.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// DeleteCategory handles DELETE /api/categories/:id.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.engine.DeleteCategory(c.Request.Context(), c.Param("id"), mw.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
