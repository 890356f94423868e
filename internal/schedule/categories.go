package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomshare-backend/internal/model"
)

// defaultCategories are seeded into every room at creation time.
func defaultCategories(roomID, ownerID string) []model.ReservationCategory {
	now := time.Now()
	build := func(name, icon string, requiresApproval, isVisitor bool) model.ReservationCategory {
		return model.ReservationCategory{
			ID:               uuid.NewString(),
			RoomID:           roomID,
			Name:             name,
			Icon:             icon,
			Kind:             model.CategoryKindDefault,
			RequiresApproval: requiresApproval,
			IsVisitor:        isVisitor,
			CreatedBy:        ownerID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}
	return []model.ReservationCategory{
		build("Laundry", "🌀", false, false),
		build("Bathroom", "🚿", false, false),
		build("Visitor", "🚪", true, true),
	}
}

// EnsureDefaultCategories seeds the built-in categories for a room.
// Idempotent; invoked synchronously at room creation.
func (e *Engine) EnsureDefaultCategories(ctx context.Context, roomID, ownerID string) error {
	return e.store.Categories.EnsureDefaults(ctx, defaultCategories(roomID, ownerID))
}

// ListCategories returns a room's bookable categories, defaults first.
func (e *Engine) ListCategories(ctx context.Context, roomID string) ([]model.ReservationCategory, error) {
	return e.store.Categories.ListByRoom(ctx, roomID)
}

// CreateCategory adds a custom category to the room the creator lives in.
func (e *Engine) CreateCategory(ctx context.Context, roomID, name, icon, userID string) (*model.ReservationCategory, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrInvalidInput)
	}

	isMember, err := e.store.Members.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: only room members can create categories", ErrForbidden)
	}

	now := time.Now()
	category := &model.ReservationCategory{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Name:      name,
		Icon:      icon,
		Kind:      model.CategoryKindCustom,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.Categories.Create(ctx, category); err != nil {
		return nil, err
	}

	e.notifier.NotifyRoomExcept(ctx, roomID, userID, nil, Notification{
		Type:        model.NotifyCategoryCreated,
		Title:       "New reservation category",
		Message:     fmt.Sprintf("Category %q was added.", name),
		RelatedData: map[string]any{"categoryId": category.ID},
	})
	return category, nil
}

// DeleteCategory removes a custom category. Default categories are never
// deletable, and only the creator may delete their own.
func (e *Engine) DeleteCategory(ctx context.Context, categoryID, userID string) error {
	category, err := e.store.Categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
		}
		return err
	}

	if category.Kind == model.CategoryKindDefault {
		return fmt.Errorf("%w: default categories cannot be deleted", ErrInvalidState)
	}
	if category.CreatedBy != userID {
		return fmt.Errorf("%w: only the creator can delete a category", ErrForbidden)
	}

	return e.store.Categories.Delete(ctx, categoryID)
}
