package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomshare-backend/internal/model"
	"roomshare-backend/internal/store"
)

// ApprovalResult reports the ledger state after one approval call.
type ApprovalResult struct {
	Slot               *SlotView `json:"reservation"`
	IsFullyApproved    bool      `json:"isFullyApproved"`
	CurrentApprovals   int       `json:"currentApprovals"`
	RequiredApprovals  int       `json:"requiredApprovals"`
	RemainingApprovals int       `json:"remainingApprovals"`
}

// ApproveReservation records approverID's consent for a pending visitor
// slot. The quorum threshold is recomputed from the live member count on
// every call, so membership churn between request and approval is honored.
// When the final approver pushes the ledger to quorum, the conflict check
// runs once more; a conflict at that point leaves the slot pending with
// the approval already recorded.
func (e *Engine) ApproveReservation(ctx context.Context, reservationID, approverID string) (*ApprovalResult, error) {
	slot, err := e.store.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
		}
		return nil, err
	}

	if !slot.Category.IsVisitor {
		return nil, fmt.Errorf("%w: only visitor reservations require approval", ErrInvalidState)
	}
	if slot.Status != model.SlotPending {
		return nil, fmt.Errorf("%w: reservation is already approved", ErrInvalidState)
	}

	isMember, err := e.store.Members.IsMember(ctx, slot.RoomID, approverID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: only room members can approve", ErrForbidden)
	}
	if slot.ReservedBy == approverID {
		return nil, fmt.Errorf("%w: cannot approve your own reservation", ErrInvalidState)
	}

	approval, err := e.store.Approvals.GetByReservation(ctx, reservationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Ledger missing (legacy row); recreate it on the fly.
		approval = &model.ReservationApproval{
			ID:            uuid.NewString(),
			ReservationID: reservationID,
		}
		if err := e.store.Approvals.Create(ctx, approval); err != nil {
			return nil, err
		}
	}

	for _, vote := range approval.ApprovedBy {
		if vote.UserID == approverID {
			return nil, fmt.Errorf("%w: member already approved this reservation", ErrAlreadyApproved)
		}
	}

	vote := &model.ApprovalVote{
		ID:         uuid.NewString(),
		ApprovalID: approval.ID,
		UserID:     approverID,
		ApprovedAt: time.Now(),
	}
	if err := e.store.Approvals.AddVote(ctx, approval, vote); err != nil {
		if errors.Is(err, store.ErrOptimisticLock) {
			return nil, fmt.Errorf("%w: approval ledger changed concurrently, retry", ErrConflict)
		}
		return nil, err
	}

	// Quorum against the room's present composition, not the count cached
	// at request time.
	liveCount, err := e.store.Members.CountByRoom(ctx, slot.RoomID)
	if err != nil {
		return nil, err
	}
	required := requiredApprovals(int(liveCount))
	current := len(approval.ApprovedBy)

	result := &ApprovalResult{
		CurrentApprovals:  current,
		RequiredApprovals: required,
	}

	if current >= required {
		occ, err := occurrenceOf(slot)
		if err != nil {
			return nil, err
		}

		// The re-check and the status flip must not interleave with a
		// concurrent create or final approval for the same slice.
		unlock := e.slices.lock(occ.sliceKey(slot.RoomID, slot.CategoryID))
		conflict, err := e.hasConflict(ctx, slot.RoomID, slot.CategoryID, occ, slot.StartHour, slot.EndHour, slot.ID)
		if err != nil {
			unlock()
			return nil, err
		}
		if conflict {
			unlock()
			// The vote stays recorded; the requester must re-book a
			// different window.
			return nil, fmt.Errorf("%w: another approved reservation took this time during the approval window", ErrConflict)
		}
		if err := e.store.Reservations.UpdateStatus(ctx, slot.ID, model.SlotApproved); err != nil {
			unlock()
			return nil, err
		}
		unlock()

		if err := e.store.Approvals.MarkFullyApproved(ctx, approval.ID); err != nil {
			return nil, err
		}
		slot.Status = model.SlotApproved
		approval.IsFullyApproved = true
		result.IsFullyApproved = true
		result.RemainingApprovals = 0

		e.notifyFullyApproved(ctx, slot, approverID)
	} else {
		result.RemainingApprovals = required - current
		e.notifier.NotifyUser(ctx, slot.RoomID, approverID, slot.ReservedBy, Notification{
			Type:    model.NotifyReservationApproved,
			Title:   "Reservation approval progress",
			Message: fmt.Sprintf("Your visitor reservation received an approval (%d of %d).", current, required),
			RelatedData: map[string]any{
				"reservationId":      slot.ID,
				"remainingApprovals": required - current,
			},
		})
	}

	view := newSlotView(slot)
	result.Slot = &view
	return result, nil
}

// requiredApprovals is the consensus threshold: every member except the
// requester.
func requiredApprovals(liveMemberCount int) int {
	return liveMemberCount - 1
}

func (e *Engine) notifyFullyApproved(ctx context.Context, slot *model.ReservationSlot, lastApprover string) {
	related := map[string]any{"reservationId": slot.ID}

	e.notifier.NotifyUser(ctx, slot.RoomID, lastApprover, slot.ReservedBy, Notification{
		Type:        model.NotifyReservationFullyApproved,
		Title:       "Reservation approved",
		Message:     fmt.Sprintf("Your visitor reservation for %s is fully approved.", slot.SpecificDate.Format("2006-01-02")),
		RelatedData: related,
	})
	e.notifier.NotifyRoomExcept(ctx, slot.RoomID, slot.ReservedBy, nil, Notification{
		Type:        model.NotifyReservationFullyApproved,
		Title:       "Visitor reservation approved",
		Message:     fmt.Sprintf("The visitor reservation for %s is now confirmed.", slot.SpecificDate.Format("2006-01-02")),
		RelatedData: related,
	})

	e.logger.Info("visitor reservation fully approved",
		zap.String("reservation_id", slot.ID),
		zap.String("room_id", slot.RoomID))
}
