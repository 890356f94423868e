package model

import "time"

// SlotStatus is the approval state of a reservation slot.
type SlotStatus string

const (
	SlotPending  SlotStatus = "pending"
	SlotApproved SlotStatus = "approved"
)

// ReservationSlot is a single booked time interval on a resource category.
//
// A slot is one of two shapes, discriminated by the category's IsVisitor
// flag: weekly slots populate DayOfWeek+WeekStartDate (and optionally
// recur), dated visitor slots populate SpecificDate. The schedule package
// wraps these columns in an Occurrence value so the rest of the code never
// sees a half-populated row.
type ReservationSlot struct {
	ID         string     `gorm:"primaryKey;size:36"`
	RoomID     string     `gorm:"size:36;not null;index:idx_slot_weekly,priority:1;index:idx_slot_dated,priority:1"`
	CategoryID string     `gorm:"size:36;not null;index:idx_slot_weekly,priority:2;index:idx_slot_dated,priority:2"`
	ReservedBy string     `gorm:"size:36;not null;index"`
	StartHour  int        `gorm:"not null"`
	EndHour    int        `gorm:"not null"`
	Status     SlotStatus `gorm:"size:16;not null;default:approved"`

	// Weekly variant.
	DayOfWeek     *int       `gorm:"index:idx_slot_weekly,priority:3"`
	WeekStartDate *time.Time `gorm:"index:idx_slot_weekly,priority:4"` // Monday, time-zeroed
	IsRecurring   bool       `gorm:"not null;default:false"`

	// Dated (visitor) variant.
	SpecificDate *time.Time `gorm:"index:idx_slot_dated,priority:3"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Associations
	Room     Room                `gorm:"constraint:OnDelete:CASCADE"`
	Category ReservationCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
