package model

import "time"

// RoomMember links a user to the room they live in. A user belongs to at
// most one room, and nicknames are unique within a room.
type RoomMember struct {
	ID        string    `gorm:"primaryKey;size:36"`
	RoomID    string    `gorm:"size:36;not null;uniqueIndex:idx_member_room_user,priority:1"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_member_room_user,priority:2"`
	Nickname  string    `gorm:"size:64;not null"`
	IsOwner   bool      `gorm:"not null;default:false"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE"`
}
