package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomshare-backend/internal/model"
)

// NotificationStore is the data access interface for in-app notifications.
type NotificationStore interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
}

// SubscriptionStore is the data access interface for web push subscriptions.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub *model.PushSubscription) error
	Delete(ctx context.Context, endpoint string) error
	ListByUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error)
}

type notificationStore struct {
	db *gorm.DB
}

func (n *notificationStore) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return n.db.WithContext(ctx).Create(&notifications).Error
}

func (n *notificationStore) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error) {
	q := n.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var notifications []model.Notification
	err := q.Order("created_at DESC").Find(&notifications).Error
	return notifications, err
}

func (n *notificationStore) MarkAllRead(ctx context.Context, userID string) error {
	return n.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

type subscriptionStore struct {
	db *gorm.DB
}

func (s *subscriptionStore) Upsert(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *subscriptionStore) Delete(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}

func (s *subscriptionStore) ListByUsers(ctx context.Context, userIDs []string) ([]model.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&subs).Error
	return subs, err
}
