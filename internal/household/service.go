package household

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomshare-backend/internal/model"
	"roomshare-backend/internal/schedule"
	"roomshare-backend/internal/store"
)

// Service manages rooms and their member rosters. The scheduling engine
// treats this data as a read-only membership directory.
type Service struct {
	store  *store.Store
	engine *schedule.Engine
	logger *zap.Logger
}

// NewService creates a household service.
func NewService(s *store.Store, engine *schedule.Engine, logger *zap.Logger) *Service {
	return &Service{store: s, engine: engine, logger: logger}
}

// CreateRoom creates a room with ownerID as its first member and seeds the
// default reservation categories.
func (s *Service) CreateRoom(ctx context.Context, name, address, ownerID, ownerNickname string) (*model.Room, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", schedule.ErrInvalidInput)
	}

	now := time.Now()
	room := &model.Room{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   address,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	member := &model.RoomMember{
		ID:       uuid.NewString(),
		RoomID:   room.ID,
		UserID:   ownerID,
		Nickname: ownerNickname,
		IsOwner:  true,
		JoinedAt: now,
	}
	if err := s.store.Members.Create(ctx, member); err != nil {
		return nil, err
	}

	if err := s.engine.EnsureDefaultCategories(ctx, room.ID, ownerID); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_id", room.ID),
		zap.String("owner_id", ownerID))
	return room, nil
}

// JoinRoom adds userID to a room's roster.
func (s *Service) JoinRoom(ctx context.Context, roomID, userID, nickname string) (*model.RoomMember, error) {
	if _, err := s.store.Rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", schedule.ErrNotFound, roomID)
		}
		return nil, err
	}

	already, err := s.store.Members.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, fmt.Errorf("%w: user is already a member of this room", schedule.ErrInvalidState)
	}

	member := &model.RoomMember{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		UserID:   userID,
		Nickname: nickname,
		JoinedAt: time.Now(),
	}
	if err := s.store.Members.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers returns a room's roster ordered by join time.
func (s *Service) ListMembers(ctx context.Context, roomID string) ([]model.RoomMember, error) {
	return s.store.Members.ListByRoom(ctx, roomID)
}
