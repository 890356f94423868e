package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomshare-backend/internal/model"
	"roomshare-backend/internal/store"
)

// createRecurring books a recurring weekly laundry slot and returns the
// originating slot.
func createRecurring(t *testing.T, engine *Engine, s *store.Store, room testRoom, userID string, day, startHour, endHour int) *model.ReservationSlot {
	t.Helper()
	view, err := engine.CreateReservation(context.Background(), CreateRequest{
		RoomID:      room.ID,
		CategoryID:  room.Laundry.ID,
		DayOfWeek:   intPtr(day),
		IsRecurring: true,
		StartHour:   startHour,
		EndHour:     endHour,
	}, userID)
	require.NoError(t, err)
	slot, err := s.Reservations.GetByID(context.Background(), view.ID)
	require.NoError(t, err)
	return slot
}

func TestRecurringMaterialization(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	room := seedRoom(t, engine, s, 3)

	createRecurring(t, engine, s, room, "user-0", 1, 9, 11)

	// The original plus twelve pre-generated weeks.
	total := countSlots(t, s, "room_id = ? AND reserved_by = ?", room.ID, "user-0")
	assert.Equal(t, int64(1+materializeHorizonWeeks), total)

	// Every clone sits exactly one week after the previous one and is
	// approved immediately.
	weekStart := WeekStart(time.Now())
	for i := 0; i <= materializeHorizonWeeks; i++ {
		ws := weekStart.AddDate(0, 0, 7*i)
		n := countSlots(t, s,
			"room_id = ? AND week_start_date = ? AND status = ? AND is_recurring = ?",
			room.ID, ws, model.SlotApproved, true)
		assert.Equal(t, int64(1), n, "week %d", i)
	}
}

func TestMaterializeForward_Idempotent(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	room := seedRoom(t, engine, s, 3)
	ctx := context.Background()

	slot := createRecurring(t, engine, s, room, "user-0", 1, 9, 11)

	created, err := engine.materializeForward(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, 0, created, "re-running creates nothing new")

	total := countSlots(t, s, "room_id = ?", room.ID)
	assert.Equal(t, int64(1+materializeHorizonWeeks), total)
}

func TestMaterializeForward_SkipsOccupiedWeeks(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	room := seedRoom(t, engine, s, 3)
	ctx := context.Background()

	// Another member already holds an overlapping booking three weeks out.
	blockedWeek := WeekStart(time.Now()).AddDate(0, 0, 7*3)
	day := 1
	require.NoError(t, s.Reservations.Create(ctx, &model.ReservationSlot{
		ID:            uuid.NewString(),
		RoomID:        room.ID,
		CategoryID:    room.Laundry.ID,
		ReservedBy:    "user-1",
		StartHour:     10,
		EndHour:       12,
		Status:        model.SlotApproved,
		DayOfWeek:     &day,
		WeekStartDate: &blockedWeek,
	}))

	createRecurring(t, engine, s, room, "user-0", 1, 9, 11)

	// The occupied week is skipped silently; the rest materialize.
	mine := countSlots(t, s, "room_id = ? AND reserved_by = ?", room.ID, "user-0")
	assert.Equal(t, int64(materializeHorizonWeeks), mine)
	blocked := countSlots(t, s,
		"room_id = ? AND reserved_by = ? AND week_start_date = ?", room.ID, "user-0", blockedWeek)
	assert.Equal(t, int64(0), blocked)
}

func TestRollForwardWeek(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	room := seedRoom(t, engine, s, 3)
	ctx := context.Background()

	createRecurring(t, engine, s, room, "user-0", 1, 9, 11)

	// Simulate a missing next-week instance, then roll forward.
	nextWeek := WeekStart(time.Now()).AddDate(0, 0, 7)
	require.NoError(t, s.DB().
		Where("room_id = ? AND week_start_date = ?", room.ID, nextWeek).
		Delete(&model.ReservationSlot{}).Error)

	created, err := engine.RollForwardWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Running the job again at the same boundary is a no-op.
	created, err = engine.RollForwardWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	n := countSlots(t, s, "room_id = ? AND week_start_date = ?", room.ID, nextWeek)
	assert.Equal(t, int64(1), n)
}

func TestSweepExpired(t *testing.T) {
	engine, s, _ := newTestEngine(t)
	room := seedRoom(t, engine, s, 3)
	ctx := context.Background()

	now := time.Now()
	day := 1
	lastWeek := WeekStart(now).AddDate(0, 0, -7)
	thisWeek := WeekStart(now)
	yesterday := DateOnly(now.AddDate(0, 0, -1))
	today := DateOnly(now)

	makeWeekly := func(weekStart time.Time) string {
		id := uuid.NewString()
		require.NoError(t, s.Reservations.Create(ctx, &model.ReservationSlot{
			ID: id, RoomID: room.ID, CategoryID: room.Laundry.ID, ReservedBy: "user-0",
			StartHour: 9, EndHour: 11, Status: model.SlotApproved,
			DayOfWeek: &day, WeekStartDate: &weekStart,
		}))
		return id
	}
	makeDated := func(date time.Time) string {
		id := uuid.NewString()
		require.NoError(t, s.Reservations.Create(ctx, &model.ReservationSlot{
			ID: id, RoomID: room.ID, CategoryID: room.Visitor.ID, ReservedBy: "user-0",
			StartHour: 14, EndHour: 16, Status: model.SlotApproved,
			SpecificDate: &date,
		}))
		return id
	}

	staleWeekly := makeWeekly(lastWeek)
	keptWeekly := makeWeekly(thisWeek)
	staleDated := makeDated(yesterday)
	keptDated := makeDated(today)

	// The stale dated slot still carries its approval ledger.
	approval := &model.ReservationApproval{ID: uuid.NewString(), ReservationID: staleDated}
	require.NoError(t, s.Approvals.Create(ctx, approval))
	require.NoError(t, s.DB().Create(&model.ApprovalVote{
		ID: uuid.NewString(), ApprovalID: approval.ID, UserID: "user-1", ApprovedAt: now,
	}).Error)

	deleted, err := engine.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	assert.Equal(t, int64(0), countSlots(t, s, "id IN ?", []string{staleWeekly, staleDated}))
	assert.Equal(t, int64(2), countSlots(t, s, "id IN ?", []string{keptWeekly, keptDated}),
		"current week and same-day slots are retained")

	// No dangling ledger rows survive the sweep.
	var approvals, votes int64
	require.NoError(t, s.DB().Model(&model.ReservationApproval{}).Count(&approvals).Error)
	require.NoError(t, s.DB().Model(&model.ApprovalVote{}).Count(&votes).Error)
	assert.Equal(t, int64(0), approvals)
	assert.Equal(t, int64(0), votes)

	// A second sweep finds nothing.
	deleted, err = engine.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
}
