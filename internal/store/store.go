package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrOptimisticLock reports that a versioned record was modified by a
// concurrent operation between read and write.
var ErrOptimisticLock = errors.New("record was modified by a concurrent operation")

// Store is the aggregate entry point for all persistence interfaces.
type Store struct {
	db *gorm.DB

	Rooms         RoomStore
	Members       MemberStore
	Categories    CategoryStore
	Reservations  ReservationStore
	Approvals     ApprovalStore
	Notifications NotificationStore
	Subscriptions SubscriptionStore
}

// New creates a gorm-backed Store.
func New(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Rooms:         &roomStore{db: db},
		Members:       &memberStore{db: db},
		Categories:    &categoryStore{db: db},
		Reservations:  &reservationStore{db: db},
		Approvals:     &approvalStore{db: db},
		Notifications: &notificationStore{db: db},
		Subscriptions: &subscriptionStore{db: db},
	}
}

// DB exposes the underlying connection for migrations and tests.
func (s *Store) DB() *gorm.DB {
	return s.db
}
