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

// Notification is the payload handed to the notification sink.
type Notification struct {
	Type        model.NotificationType
	Title       string
	Message     string
	RelatedData map[string]any
}

// Notifier is the fire-and-forget notification sink. Implementations must
// swallow and log delivery failures; the engine never checks them.
type Notifier interface {
	// NotifyUser delivers to a single member.
	NotifyUser(ctx context.Context, roomID, fromUserID, userID string, n Notification)
	// NotifyRoomExcept delivers to every room member not listed in exclude.
	// The sender is always excluded.
	NotifyRoomExcept(ctx context.Context, roomID, fromUserID string, exclude []string, n Notification)
}

// Engine implements the reservation scheduling and approval protocol on
// top of the Store. It is safe for concurrent use.
type Engine struct {
	store    *store.Store
	notifier Notifier
	logger   *zap.Logger
	slices   *sliceLocks
}

// NewEngine creates a scheduling engine.
func NewEngine(s *store.Store, notifier Notifier, logger *zap.Logger) *Engine {
	return &Engine{
		store:    s,
		notifier: notifier,
		logger:   logger,
		slices:   newSliceLocks(),
	}
}

// hasConflict reports whether an approved slot in the same
// (room, category, occurrence) slice overlaps [startHour, endHour).
// Pending visitor requests never block other bookings.
func (e *Engine) hasConflict(ctx context.Context, roomID, categoryID string, occ Occurrence, startHour, endHour int, excludeID string) (bool, error) {
	if date, ok := occ.Date(); ok {
		return e.store.Reservations.HasApprovedOverlapDated(ctx, roomID, categoryID, date, startHour, endHour, excludeID)
	}
	day, weekStart, _ := occ.Weekly()
	return e.store.Reservations.HasApprovedOverlapWeekly(ctx, roomID, categoryID, day, weekStart, startHour, endHour, excludeID)
}

// CreateRequest carries the inputs for a new reservation. Exactly one of
// DayOfWeek (weekly) or SpecificDate (visitor) must be set, matching the
// category's topology.
type CreateRequest struct {
	RoomID       string
	CategoryID   string
	DayOfWeek    *int
	IsRecurring  bool
	SpecificDate *time.Time
	StartHour    int
	EndHour      int
}

// CreateReservation books a slot for userID. Weekly slots are approved
// immediately; visitor slots start pending with a fresh approval ledger.
func (e *Engine) CreateReservation(ctx context.Context, req CreateRequest, userID string) (*SlotView, error) {
	if req.StartHour < 0 || req.StartHour > 23 || req.EndHour < 1 || req.EndHour > 24 {
		return nil, fmt.Errorf("%w: hours must be within a single day", ErrInvalidInput)
	}
	if req.StartHour >= req.EndHour {
		return nil, fmt.Errorf("%w: start hour must be before end hour", ErrInvalidInput)
	}

	if _, err := e.store.Rooms.GetByID(ctx, req.RoomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %s", ErrNotFound, req.RoomID)
		}
		return nil, err
	}

	isMember, err := e.store.Members.IsMember(ctx, req.RoomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, fmt.Errorf("%w: only room members can create reservations", ErrForbidden)
	}

	category, err := e.store.Categories.GetByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: category %s", ErrNotFound, req.CategoryID)
		}
		return nil, err
	}
	if category.RoomID != req.RoomID {
		return nil, fmt.Errorf("%w: category %s does not belong to room %s", ErrNotFound, req.CategoryID, req.RoomID)
	}

	now := time.Now()
	slot := &model.ReservationSlot{
		ID:         uuid.NewString(),
		RoomID:     req.RoomID,
		CategoryID: req.CategoryID,
		ReservedBy: userID,
		StartHour:  req.StartHour,
		EndHour:    req.EndHour,
	}

	var occ Occurrence
	if category.IsVisitor {
		if req.SpecificDate == nil {
			return nil, fmt.Errorf("%w: visitor reservations require a specific date", ErrInvalidInput)
		}
		date := DateOnly(*req.SpecificDate)
		if date.Before(DateOnly(now)) {
			return nil, fmt.Errorf("%w: cannot reserve a past date", ErrInvalidInput)
		}
		occ = OnDate(date)
		slot.SpecificDate = &date
		slot.Status = model.SlotPending
	} else {
		if req.DayOfWeek == nil {
			return nil, fmt.Errorf("%w: weekly reservations require a day of week", ErrInvalidInput)
		}
		if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: day of week must be 0..6", ErrInvalidInput)
		}
		weekStart := WeekStart(now)
		occ = OnWeekday(*req.DayOfWeek, weekStart)
		slot.DayOfWeek = req.DayOfWeek
		slot.WeekStartDate = &weekStart
		slot.IsRecurring = req.IsRecurring
		slot.Status = model.SlotApproved
	}

	// Conflict check and insert must not interleave with a concurrent
	// create for the same slice.
	unlock := e.slices.lock(occ.sliceKey(req.RoomID, req.CategoryID))
	conflict, err := e.hasConflict(ctx, req.RoomID, req.CategoryID, occ, req.StartHour, req.EndHour, "")
	if err != nil {
		unlock()
		return nil, err
	}
	if conflict {
		unlock()
		return nil, fmt.Errorf("%w: an approved reservation already occupies this time", ErrConflict)
	}
	if err := e.store.Reservations.Create(ctx, slot); err != nil {
		unlock()
		return nil, err
	}
	unlock()

	if category.IsVisitor {
		approval := &model.ReservationApproval{
			ID:            uuid.NewString(),
			ReservationID: slot.ID,
		}
		if err := e.store.Approvals.Create(ctx, approval); err != nil {
			return nil, err
		}
	}

	if !category.IsVisitor && req.IsRecurring {
		if _, err := e.materializeForward(ctx, slot); err != nil {
			// The original booking is committed; pre-generation can be
			// caught up by the weekly job.
			e.logger.Warn("failed to pre-generate recurring reservations",
				zap.String("slot_id", slot.ID), zap.Error(err))
		}
	}

	e.notifyCreated(ctx, slot, category)

	slot.Category = *category
	view := newSlotView(slot)
	return &view, nil
}

func (e *Engine) notifyCreated(ctx context.Context, slot *model.ReservationSlot, category *model.ReservationCategory) {
	related := map[string]any{
		"reservationId": slot.ID,
		"categoryId":    category.ID,
		"startHour":     slot.StartHour,
		"endHour":       slot.EndHour,
	}
	if category.IsVisitor {
		e.notifier.NotifyRoomExcept(ctx, slot.RoomID, slot.ReservedBy, nil, Notification{
			Type:        model.NotifyVisitorRequest,
			Title:       "Visitor reservation request",
			Message:     fmt.Sprintf("A visitor reservation for %s on %s (%02d:00-%02d:00) needs your approval.", category.Name, slot.SpecificDate.Format("2006-01-02"), slot.StartHour, slot.EndHour),
			RelatedData: related,
		})
		return
	}
	e.notifier.NotifyRoomExcept(ctx, slot.RoomID, slot.ReservedBy, nil, Notification{
		Type:        model.NotifyReservationCreated,
		Title:       "New reservation",
		Message:     fmt.Sprintf("%s was reserved (%02d:00-%02d:00).", category.Name, slot.StartHour, slot.EndHour),
		RelatedData: related,
	})
}
