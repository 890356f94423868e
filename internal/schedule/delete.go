package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DeleteReservation removes a slot owned by userID. Dated slots are
// deletable until their date has passed. Weekly slots are deletable only
// during their own week; deleting a recurring slot cascades to every
// future materialized instance, never past ones.
func (e *Engine) DeleteReservation(ctx context.Context, reservationID, userID string) error {
	slot, err := e.store.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
		}
		return err
	}

	if slot.ReservedBy != userID {
		return fmt.Errorf("%w: only the reserving member can delete a reservation", ErrForbidden)
	}

	now := time.Now()
	if slot.Category.IsVisitor {
		if slot.SpecificDate == nil {
			return fmt.Errorf("%w: visitor slot %s has no date", ErrInvalidInput, slot.ID)
		}
		if slot.SpecificDate.Before(DateOnly(now)) {
			return fmt.Errorf("%w: past reservations cannot be deleted", ErrInvalidInput)
		}
		if err := e.store.Approvals.DeleteByReservation(ctx, slot.ID); err != nil {
			return err
		}
		return e.store.Reservations.Delete(ctx, slot.ID)
	}

	if slot.WeekStartDate == nil {
		return fmt.Errorf("%w: weekly slot %s has no week", ErrInvalidInput, slot.ID)
	}
	if !slot.WeekStartDate.Equal(WeekStart(now)) {
		return fmt.Errorf("%w: only current-week reservations can be deleted", ErrInvalidState)
	}

	if slot.IsRecurring {
		deleted, err := e.store.Reservations.DeleteRecurringFrom(ctx, slot)
		if err != nil {
			return err
		}
		e.logger.Info("deleted recurring reservation series",
			zap.String("reservation_id", slot.ID),
			zap.Int64("deleted_rows", deleted))
		return nil
	}

	return e.store.Reservations.Delete(ctx, slot.ID)
}
