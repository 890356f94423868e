package model

import "time"

// Room represents a household group with a fixed member roster and one owner.
type Room struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:128;not null"`
	Address   string    `gorm:"size:256"`
	OwnerID   string    `gorm:"size:36;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Members []RoomMember `gorm:"foreignKey:RoomID"`
}
