package schedule

import (
	"fmt"
	"time"

	"roomshare-backend/internal/model"
)

// Occurrence is the topology of a reservation slot: either a weekday within
// a specific week (weekly slots) or a single calendar date (visitor slots).
// The constructors guarantee that exactly one variant is populated.
type Occurrence struct {
	weekly *weeklyOccurrence
	dated  *datedOccurrence
}

type weeklyOccurrence struct {
	dayOfWeek int // 0 = Sunday .. 6 = Saturday
	weekStart time.Time
}

type datedOccurrence struct {
	date time.Time
}

// OnWeekday builds the weekly occurrence for dayOfWeek in the week starting
// at weekStart (Monday, time-zeroed).
func OnWeekday(dayOfWeek int, weekStart time.Time) Occurrence {
	return Occurrence{weekly: &weeklyOccurrence{dayOfWeek: dayOfWeek, weekStart: DateOnly(weekStart)}}
}

// OnDate builds the dated occurrence for a single calendar date.
func OnDate(date time.Time) Occurrence {
	return Occurrence{dated: &datedOccurrence{date: DateOnly(date)}}
}

// IsDated reports whether the occurrence is a one-off calendar date.
func (o Occurrence) IsDated() bool {
	return o.dated != nil
}

// Weekly returns the weekly variant's fields. ok is false for dated
// occurrences.
func (o Occurrence) Weekly() (dayOfWeek int, weekStart time.Time, ok bool) {
	if o.weekly == nil {
		return 0, time.Time{}, false
	}
	return o.weekly.dayOfWeek, o.weekly.weekStart, true
}

// Date returns the dated variant's calendar date. ok is false for weekly
// occurrences.
func (o Occurrence) Date() (time.Time, bool) {
	if o.dated == nil {
		return time.Time{}, false
	}
	return o.dated.date, true
}

// sliceKey identifies the (room, category, topology) slice the occurrence
// occupies, used to serialize conflict-check-then-insert.
func (o Occurrence) sliceKey(roomID, categoryID string) string {
	if o.dated != nil {
		return fmt.Sprintf("d|%s|%s|%s", roomID, categoryID, o.dated.date.Format("2006-01-02"))
	}
	return fmt.Sprintf("w|%s|%s|%d|%s", roomID, categoryID, o.weekly.dayOfWeek, o.weekly.weekStart.Format("2006-01-02"))
}

// occurrenceOf reconstructs the occurrence from a persisted slot row.
func occurrenceOf(slot *model.ReservationSlot) (Occurrence, error) {
	switch {
	case slot.SpecificDate != nil:
		return OnDate(*slot.SpecificDate), nil
	case slot.DayOfWeek != nil && slot.WeekStartDate != nil:
		return OnWeekday(*slot.DayOfWeek, *slot.WeekStartDate), nil
	default:
		return Occurrence{}, fmt.Errorf("%w: slot %s has no topology fields", ErrInvalidInput, slot.ID)
	}
}
