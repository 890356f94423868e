package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomshare-backend/internal/model"
)

// CategoryStore is the data access interface for reservation categories.
type CategoryStore interface {
	Create(ctx context.Context, category *model.ReservationCategory) error
	GetByID(ctx context.Context, id string) (*model.ReservationCategory, error)
	ListByRoom(ctx context.Context, roomID string) ([]model.ReservationCategory, error)
	Delete(ctx context.Context, id string) error
	// EnsureDefaults upserts the built-in categories for a room. Existing
	// rows are left untouched, so the call is idempotent.
	EnsureDefaults(ctx context.Context, categories []model.ReservationCategory) error
}

type categoryStore struct {
	db *gorm.DB
}

func (c *categoryStore) Create(ctx context.Context, category *model.ReservationCategory) error {
	return c.db.WithContext(ctx).Create(category).Error
}

func (c *categoryStore) GetByID(ctx context.Context, id string) (*model.ReservationCategory, error) {
	var category model.ReservationCategory
	if err := c.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *categoryStore) ListByRoom(ctx context.Context, roomID string) ([]model.ReservationCategory, error) {
	var categories []model.ReservationCategory
	err := c.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("kind DESC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (c *categoryStore) Delete(ctx context.Context, id string) error {
	return c.db.WithContext(ctx).Delete(&model.ReservationCategory{}, "id = ?", id).Error
}

func (c *categoryStore) EnsureDefaults(ctx context.Context, categories []model.ReservationCategory) error {
	if len(categories) == 0 {
		return nil
	}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(&categories).Error
}
