package model

import "time"

// NotificationType enumerates the events the engine reports to members.
type NotificationType string

const (
	NotifyReservationCreated       NotificationType = "reservation_created"
	NotifyReservationApproved      NotificationType = "reservation_approved"
	NotifyReservationFullyApproved NotificationType = "reservation_fully_approved"
	NotifyVisitorRequest           NotificationType = "visitor_request"
	NotifyCategoryCreated          NotificationType = "category_created"
)

// Notification is a persisted in-app notification for one user.
// RelatedData carries a JSON-encoded payload (reservation id, hours, ...).
type Notification struct {
	ID          string           `gorm:"primaryKey;size:36"`
	UserID      string           `gorm:"size:36;not null;index"`
	FromUserID  string           `gorm:"size:36"`
	RoomID      string           `gorm:"size:36;not null;index"`
	Type        NotificationType `gorm:"size:48;not null"`
	Title       string           `gorm:"size:128;not null"`
	Message     string           `gorm:"size:512;not null"`
	RelatedData string           `gorm:"type:text"`
	IsRead      bool             `gorm:"not null;default:false"`
	CreatedAt   time.Time        `gorm:"not null"`
	UpdatedAt   time.Time
}
