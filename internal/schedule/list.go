package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roomshare-backend/internal/model"
)

// SlotView is the client-facing shape of a reservation slot.
type SlotView struct {
	ID           string           `json:"id"`
	RoomID       string           `json:"roomId"`
	CategoryID   string           `json:"categoryId"`
	CategoryName string           `json:"categoryName,omitempty"`
	CategoryIcon string           `json:"categoryIcon,omitempty"`
	IsVisitor    bool             `json:"isVisitor"`
	ReservedBy   string           `json:"reservedBy"`
	StartHour    int              `json:"startHour"`
	EndHour      int              `json:"endHour"`
	Status       model.SlotStatus `json:"status"`

	DayOfWeek     *int    `json:"dayOfWeek,omitempty"`
	WeekStartDate *string `json:"weekStartDate,omitempty"`
	IsRecurring   bool    `json:"isRecurring,omitempty"`
	SpecificDate  *string `json:"specificDate,omitempty"`
}

// ApprovalStatus summarizes a visitor reservation's consensus progress.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalPartial  ApprovalStatus = "partial_approved"
	ApprovalComplete ApprovalStatus = "fully_approved"
	ApprovalApproved ApprovalStatus = "approved"
)

// VisitorView is a dated slot together with its approval progress.
type VisitorView struct {
	SlotView
	ApprovalStatus     ApprovalStatus `json:"approvalStatus"`
	TotalMembers       int            `json:"totalMembers"`
	RequiredApprovals  int            `json:"requiredApprovals"`
	CurrentApprovals   int            `json:"currentApprovals"`
	HasViewerApproved  bool           `json:"hasViewerApproved,omitempty"`
	ApprovedBy         []VoteView     `json:"approvedBy"`
}

// VoteView is one recorded approval.
type VoteView struct {
	UserID     string    `json:"userId"`
	ApprovedAt time.Time `json:"approvedAt"`
}

func newSlotView(slot *model.ReservationSlot) SlotView {
	v := SlotView{
		ID:           slot.ID,
		RoomID:       slot.RoomID,
		CategoryID:   slot.CategoryID,
		CategoryName: slot.Category.Name,
		CategoryIcon: slot.Category.Icon,
		IsVisitor:    slot.Category.IsVisitor,
		ReservedBy:   slot.ReservedBy,
		StartHour:    slot.StartHour,
		EndHour:      slot.EndHour,
		Status:       slot.Status,
		IsRecurring:  slot.IsRecurring,
		DayOfWeek:    slot.DayOfWeek,
	}
	if slot.WeekStartDate != nil {
		s := slot.WeekStartDate.Format("2006-01-02")
		v.WeekStartDate = &s
	}
	if slot.SpecificDate != nil {
		s := slot.SpecificDate.Format("2006-01-02")
		v.SpecificDate = &s
	}
	return v
}

// ListWeeklySchedules returns the approved weekly slots of a room,
// optionally filtered to one week (defaults to all weeks) and one
// category. Visitor slots never appear here.
func (e *Engine) ListWeeklySchedules(ctx context.Context, roomID string, weekStart *time.Time, categoryID string) ([]SlotView, error) {
	var ws *time.Time
	if weekStart != nil {
		aligned := WeekStart(*weekStart)
		ws = &aligned
	}
	slots, err := e.store.Reservations.ListApprovedWeekly(ctx, roomID, ws, categoryID)
	if err != nil {
		return nil, err
	}
	views := make([]SlotView, 0, len(slots))
	for i := range slots {
		views = append(views, newSlotView(&slots[i]))
	}
	return views, nil
}

// ListCurrentWeekSchedules is ListWeeklySchedules pinned to the present week.
func (e *Engine) ListCurrentWeekSchedules(ctx context.Context, roomID, categoryID string) ([]SlotView, error) {
	ws := WeekStart(time.Now())
	return e.ListWeeklySchedules(ctx, roomID, &ws, categoryID)
}

// ListVisitorSchedules returns every dated slot of a room, any status,
// each with its approval progress against the live member count.
func (e *Engine) ListVisitorSchedules(ctx context.Context, roomID string) ([]VisitorView, error) {
	slots, err := e.store.Reservations.ListDated(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return e.visitorViews(ctx, roomID, slots, "")
}

// ListPendingApprovals returns the pending visitor requests of a room,
// flagging the ones the viewer has already approved.
func (e *Engine) ListPendingApprovals(ctx context.Context, roomID, viewerID string) ([]VisitorView, error) {
	slots, err := e.store.Reservations.ListPendingDated(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return e.visitorViews(ctx, roomID, slots, viewerID)
}

func (e *Engine) visitorViews(ctx context.Context, roomID string, slots []model.ReservationSlot, viewerID string) ([]VisitorView, error) {
	totalMembers, err := e.store.Members.CountByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	required := requiredApprovals(int(totalMembers))

	views := make([]VisitorView, 0, len(slots))
	for i := range slots {
		slot := &slots[i]
		view := VisitorView{
			SlotView:          newSlotView(slot),
			TotalMembers:      int(totalMembers),
			RequiredApprovals: required,
			ApprovedBy:        []VoteView{},
			ApprovalStatus:    ApprovalApproved,
		}

		if slot.Status == model.SlotPending {
			view.ApprovalStatus = ApprovalPending
			approval, err := e.store.Approvals.GetByReservation(ctx, slot.ID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, err
				}
			} else {
				view.CurrentApprovals = len(approval.ApprovedBy)
				for _, vote := range approval.ApprovedBy {
					view.ApprovedBy = append(view.ApprovedBy, VoteView{UserID: vote.UserID, ApprovedAt: vote.ApprovedAt})
					if viewerID != "" && vote.UserID == viewerID {
						view.HasViewerApproved = true
					}
				}
				switch {
				case view.CurrentApprovals >= required:
					view.ApprovalStatus = ApprovalComplete
				case view.CurrentApprovals > 0:
					view.ApprovalStatus = ApprovalPartial
				}
			}
		}

		views = append(views, view)
	}
	return views, nil
}
