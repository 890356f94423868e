package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"roomshare-backend/internal/household"
	"roomshare-backend/internal/schedule"
	"roomshare-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine    *schedule.Engine
	household *household.Service
	store     *store.Store
	webpush   *webpush.Options
	logger    *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(engine *schedule.Engine, hh *household.Service, s *store.Store, webpushOptions *webpush.Options, logger *zap.Logger) *Handler {
	return &Handler{
		engine:    engine,
		household: hh,
		store:     s,
		webpush:   webpushOptions,
		logger:    logger,
	}
}
