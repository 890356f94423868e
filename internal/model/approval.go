package model

import "time"

// ReservationApproval is the consensus ledger for one dated visitor slot.
// Version backs the optimistic concurrency check used when two members
// approve the same reservation at once.
type ReservationApproval struct {
	ID              string    `gorm:"primaryKey;size:36"`
	ReservationID   string    `gorm:"size:36;not null;uniqueIndex"`
	IsFullyApproved bool      `gorm:"not null;default:false"`
	Version         int64     `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`

	// Associations
	Reservation ReservationSlot `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	ApprovedBy  []ApprovalVote  `gorm:"foreignKey:ApprovalID"`
}

// ApprovalVote records one member's approval of a visitor reservation.
// A member votes at most once per reservation, and the requester never
// appears here.
type ApprovalVote struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ApprovalID string    `gorm:"size:36;not null;uniqueIndex:idx_vote_approval_user,priority:1"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_vote_approval_user,priority:2"`
	ApprovedAt time.Time `gorm:"not null"`
}
