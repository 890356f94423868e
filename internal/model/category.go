package model

import "time"

// CategoryKind distinguishes built-in categories from user-created ones.
type CategoryKind string

const (
	CategoryKindDefault CategoryKind = "default"
	CategoryKindCustom  CategoryKind = "custom"
)

// ReservationCategory is a bookable resource category within a room.
// Visitor categories produce one-off dated reservations that require
// unanimous approval; all other categories produce weekly reservations.
type ReservationCategory struct {
	ID               string       `gorm:"primaryKey;size:36"`
	RoomID           string       `gorm:"size:36;not null;uniqueIndex:idx_category_room_name,priority:1"`
	Name             string       `gorm:"size:64;not null;uniqueIndex:idx_category_room_name,priority:2"`
	Icon             string       `gorm:"size:16;not null"`
	Kind             CategoryKind `gorm:"size:16;not null;default:custom"`
	RequiresApproval bool         `gorm:"not null;default:false"`
	IsVisitor        bool         `gorm:"not null;default:false"`
	CreatedBy        string       `gorm:"size:36;not null"`
	CreatedAt        time.Time    `gorm:"not null"`
	UpdatedAt        time.Time    `gorm:"not null"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}
