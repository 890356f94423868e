package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomshare-backend/internal/model"
)

// materializeHorizonWeeks bounds pre-generated recurring bookings to a
// 12-week window instead of unbounded future rows.
const materializeHorizonWeeks = 12

// materializeForward clones a recurring slot into the next
// materializeHorizonWeeks weeks. Weeks that already hold an identical row
// are skipped (the operation is idempotent and safe to re-run), and weeks
// where another approved booking overlaps are skipped silently: the
// competing booking wins for that week only, with no backfill retry.
func (e *Engine) materializeForward(ctx context.Context, original *model.ReservationSlot) (int, error) {
	if !original.IsRecurring || original.WeekStartDate == nil || original.DayOfWeek == nil {
		return 0, nil
	}

	created := 0
	for i := 1; i <= materializeHorizonWeeks; i++ {
		nextWeekStart := original.WeekStartDate.AddDate(0, 0, 7*i)
		ok, err := e.materializeAt(ctx, original, nextWeekStart)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	return created, nil
}

// materializeAt inserts one clone of slot at weekStart, applying the
// idempotent-skip and conflict-skip rules under the slice lock so the job
// tolerates a concurrent create for the same week.
func (e *Engine) materializeAt(ctx context.Context, slot *model.ReservationSlot, weekStart time.Time) (bool, error) {
	occ := OnWeekday(*slot.DayOfWeek, weekStart)

	unlock := e.slices.lock(occ.sliceKey(slot.RoomID, slot.CategoryID))
	defer unlock()

	exists, err := e.store.Reservations.ExistsIdenticalWeekly(ctx, slot, weekStart)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	conflict, err := e.hasConflict(ctx, slot.RoomID, slot.CategoryID, occ, slot.StartHour, slot.EndHour, "")
	if err != nil {
		return false, err
	}
	if conflict {
		return false, nil
	}

	day := *slot.DayOfWeek
	ws := DateOnly(weekStart)
	clone := &model.ReservationSlot{
		ID:            uuid.NewString(),
		RoomID:        slot.RoomID,
		CategoryID:    slot.CategoryID,
		ReservedBy:    slot.ReservedBy,
		StartHour:     slot.StartHour,
		EndHour:       slot.EndHour,
		Status:        model.SlotApproved,
		DayOfWeek:     &day,
		WeekStartDate: &ws,
		IsRecurring:   true,
	}
	if err := e.store.Reservations.Create(ctx, clone); err != nil {
		return false, err
	}
	return true, nil
}

// RollForwardWeek clones every approved recurring slot of the current week
// into the next week. Intended to run once per week boundary; running it
// twice produces no duplicates.
func (e *Engine) RollForwardWeek(ctx context.Context) (int, error) {
	currentWeekStart := WeekStart(time.Now())
	nextWeekStart := currentWeekStart.AddDate(0, 0, 7)

	slots, err := e.store.Reservations.ListRecurringForWeek(ctx, currentWeekStart)
	if err != nil {
		return 0, err
	}

	created := 0
	for i := range slots {
		ok, err := e.materializeAt(ctx, &slots[i], nextWeekStart)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	e.logger.Info("rolled recurring reservations forward",
		zap.Int("created", created),
		zap.Time("next_week_start", nextWeekStart))
	return created, nil
}

// SweepExpired deletes weekly slots from past weeks and dated slots whose
// date has fully elapsed (same-day and future dates are retained).
// Approval ledgers are removed first so no dangling references remain.
// Returns the number of removed slots.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	now := time.Now()
	currentWeekStart := WeekStart(now)
	datedCutoff := DateOnly(now)

	ids, err := e.store.Reservations.ListExpiredIDs(ctx, currentWeekStart, datedCutoff)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := e.store.Approvals.DeleteForReservations(ctx, ids); err != nil {
		return 0, err
	}
	if err := e.store.Reservations.DeleteByIDs(ctx, ids); err != nil {
		return 0, err
	}

	e.logger.Info("swept expired reservations", zap.Int("deleted", len(ids)))
	return len(ids), nil
}
