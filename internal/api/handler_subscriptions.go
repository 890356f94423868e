package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roomshare-backend/internal/model"
	"roomshare-backend/internal/mw"
)

type putSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
}

// PutSubscription handles the creation or replacement of a push
// subscription for the calling user.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub := &model.PushSubscription{
		Endpoint:  req.Endpoint,
		UserID:    mw.UserID(c),
		P256DH:    req.P256DH,
		Auth:      req.Auth,
		CreatedAt: time.Now(),
	}
	if err := h.store.Subscriptions.Upsert(c.Request.Context(), sub); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// GetSubscriptions lists the calling user's registered subscriptions.
func (h *Handler) GetSubscriptions(c *gin.Context) {
	subs, err := h.store.Subscriptions.ListByUsers(c.Request.Context(), []string{mw.UserID(c)})
	if err != nil {
		h.respondError(c, err)
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	c.JSON(http.StatusOK, subs)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a push subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.Subscriptions.Delete(c.Request.Context(), req.Endpoint); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetVAPIDPublicKey exposes the server's VAPID public key so browsers can
// subscribe.
func (h *Handler) GetVAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.webpush.VAPIDPublicKey})
}
