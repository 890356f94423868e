package store

import (
	"context"

	"gorm.io/gorm"

	"roomshare-backend/internal/model"
)

// RoomStore is the data access interface for rooms.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
}

// MemberStore is the membership directory: the authoritative roster the
// scheduling engine consults for quorum and permission checks.
type MemberStore interface {
	Create(ctx context.Context, member *model.RoomMember) error
	CountByRoom(ctx context.Context, roomID string) (int64, error)
	IsMember(ctx context.Context, roomID, userID string) (bool, error)
	ListByRoom(ctx context.Context, roomID string) ([]model.RoomMember, error)
	ListUserIDs(ctx context.Context, roomID string) ([]string, error)
}

type roomStore struct {
	db *gorm.DB
}

func (r *roomStore) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomStore) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

type memberStore struct {
	db *gorm.DB
}

func (m *memberStore) Create(ctx context.Context, member *model.RoomMember) error {
	return m.db.WithContext(ctx).Create(member).Error
}

func (m *memberStore) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&model.RoomMember{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	return count, err
}

func (m *memberStore) IsMember(ctx context.Context, roomID, userID string) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).
		Model(&model.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	return count > 0, err
}

func (m *memberStore) ListByRoom(ctx context.Context, roomID string) ([]model.RoomMember, error) {
	var members []model.RoomMember
	err := m.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (m *memberStore) ListUserIDs(ctx context.Context, roomID string) ([]string, error) {
	var ids []string
	err := m.db.WithContext(ctx).
		Model(&model.RoomMember{}).
		Where("room_id = ?", roomID).
		Pluck("user_id", &ids).Error
	return ids, err
}
