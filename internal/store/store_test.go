package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomshare-backend/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(
		&model.Room{},
		&model.RoomMember{},
		&model.ReservationCategory{},
		&model.ReservationSlot{},
		&model.ReservationApproval{},
		&model.ApprovalVote{},
		&model.Notification{},
		&model.PushSubscription{},
	))
	return New(testDB)
}

func seedReservation(t *testing.T, s *Store) *model.ReservationSlot {
	t.Helper()
	ctx := context.Background()

	roomID := uuid.NewString()
	require.NoError(t, s.Rooms.Create(ctx, &model.Room{ID: roomID, Name: "Flat", OwnerID: "alice"}))

	categoryID := uuid.NewString()
	require.NoError(t, s.Categories.Create(ctx, &model.ReservationCategory{
		ID: categoryID, RoomID: roomID, Name: "Visitor", Icon: "🚪",
		Kind: model.CategoryKindDefault, RequiresApproval: true, IsVisitor: true,
		CreatedBy: "alice",
	}))

	date := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	slot := &model.ReservationSlot{
		ID: uuid.NewString(), RoomID: roomID, CategoryID: categoryID,
		ReservedBy: "alice", StartHour: 14, EndHour: 16,
		Status: model.SlotPending, SpecificDate: &date,
	}
	require.NoError(t, s.Reservations.Create(ctx, slot))
	return slot
}

func TestHasApprovedOverlap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	roomID := uuid.NewString()
	require.NoError(t, s.Rooms.Create(ctx, &model.Room{ID: roomID, Name: "Flat", OwnerID: "alice"}))
	categoryID := uuid.NewString()
	require.NoError(t, s.Categories.Create(ctx, &model.ReservationCategory{
		ID: categoryID, RoomID: roomID, Name: "Laundry", Icon: "🌀",
		Kind: model.CategoryKindDefault, CreatedBy: "alice",
	}))

	day := 1
	weekStart := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	slotID := uuid.NewString()
	require.NoError(t, s.Reservations.Create(ctx, &model.ReservationSlot{
		ID: slotID, RoomID: roomID, CategoryID: categoryID, ReservedBy: "alice",
		StartHour: 9, EndHour: 11, Status: model.SlotApproved,
		DayOfWeek: &day, WeekStartDate: &weekStart,
	}))

	// Half-open interval semantics against the stored [9,11) slot:
	// touching endpoints never count as an overlap.
	cases := []struct {
		startHour, endHour int
		want               bool
	}{
		{10, 12, true},  // partial overlap
		{9, 11, true},   // identical
		{10, 11, true},  // contained
		{8, 12, true},   // containing
		{11, 13, false}, // touching end
		{7, 9, false},   // touching start
		{12, 14, false}, // disjoint
	}
	for _, tc := range cases {
		got, err := s.Reservations.HasApprovedOverlapWeekly(ctx, roomID, categoryID, day, weekStart, tc.startHour, tc.endHour, "")
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "[%d,%d)", tc.startHour, tc.endHour)
	}

	// The slot under re-check excludes itself.
	got, err := s.Reservations.HasApprovedOverlapWeekly(ctx, roomID, categoryID, day, weekStart, 9, 11, slotID)
	require.NoError(t, err)
	assert.False(t, got)

	// Other weeks and other weekdays are separate slices.
	nextWeek := weekStart.AddDate(0, 0, 7)
	got, err = s.Reservations.HasApprovedOverlapWeekly(ctx, roomID, categoryID, day, nextWeek, 9, 11, "")
	require.NoError(t, err)
	assert.False(t, got)
	got, err = s.Reservations.HasApprovedOverlapWeekly(ctx, roomID, categoryID, 2, weekStart, 9, 11, "")
	require.NoError(t, err)
	assert.False(t, got)

	// Pending rows never block; only approved ones do.
	date := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	datedID := uuid.NewString()
	require.NoError(t, s.Reservations.Create(ctx, &model.ReservationSlot{
		ID: datedID, RoomID: roomID, CategoryID: categoryID, ReservedBy: "alice",
		StartHour: 14, EndHour: 16, Status: model.SlotPending,
		SpecificDate: &date,
	}))
	got, err = s.Reservations.HasApprovedOverlapDated(ctx, roomID, categoryID, date, 14, 16, "")
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, s.Reservations.UpdateStatus(ctx, datedID, model.SlotApproved))
	got, err = s.Reservations.HasApprovedOverlapDated(ctx, roomID, categoryID, date, 15, 17, "")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestAddVote_OptimisticLock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	slot := seedReservation(t, s)
	require.NoError(t, s.Approvals.Create(ctx, &model.ReservationApproval{
		ID: uuid.NewString(), ReservationID: slot.ID,
	}))

	// Two concurrent approvers read the same ledger version.
	first, err := s.Approvals.GetByReservation(ctx, slot.ID)
	require.NoError(t, err)
	second, err := s.Approvals.GetByReservation(ctx, slot.ID)
	require.NoError(t, err)

	err = s.Approvals.AddVote(ctx, first, &model.ApprovalVote{
		ID: uuid.NewString(), ApprovalID: first.ID, UserID: "bob", ApprovedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.Len(t, first.ApprovedBy, 1)

	// The second writer lost the race and must reload.
	err = s.Approvals.AddVote(ctx, second, &model.ApprovalVote{
		ID: uuid.NewString(), ApprovalID: second.ID, UserID: "carol", ApprovedAt: time.Now(),
	})
	assert.ErrorIs(t, err, ErrOptimisticLock)

	reloaded, err := s.Approvals.GetByReservation(ctx, slot.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.ApprovedBy, 1)
	assert.Equal(t, "bob", reloaded.ApprovedBy[0].UserID)

	err = s.Approvals.AddVote(ctx, reloaded, &model.ApprovalVote{
		ID: uuid.NewString(), ApprovalID: reloaded.ID, UserID: "carol", ApprovedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.Version)
}

func TestDeleteForReservations(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	slot := seedReservation(t, s)
	approval := &model.ReservationApproval{ID: uuid.NewString(), ReservationID: slot.ID}
	require.NoError(t, s.Approvals.Create(ctx, approval))
	require.NoError(t, s.Approvals.AddVote(ctx, approval, &model.ApprovalVote{
		ID: uuid.NewString(), ApprovalID: approval.ID, UserID: "bob", ApprovedAt: time.Now(),
	}))

	require.NoError(t, s.Approvals.DeleteForReservations(ctx, []string{slot.ID}))

	_, err := s.Approvals.GetByReservation(ctx, slot.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var votes int64
	require.NoError(t, s.DB().Model(&model.ApprovalVote{}).Count(&votes).Error)
	assert.Equal(t, int64(0), votes)

	// Deleting nothing is fine.
	require.NoError(t, s.Approvals.DeleteForReservations(ctx, nil))
}

func TestSubscriptionUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := &model.PushSubscription{
		Endpoint: "https://push.example.com/abc",
		UserID:   "alice",
		P256DH:   "key-1",
		Auth:     "auth-1",
	}
	require.NoError(t, s.Subscriptions.Upsert(ctx, sub))

	// Re-registering the same endpoint replaces the keys in place.
	sub.UserID = "bob"
	sub.P256DH = "key-2"
	require.NoError(t, s.Subscriptions.Upsert(ctx, sub))

	subs, err := s.Subscriptions.ListByUsers(ctx, []string{"bob"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "key-2", subs[0].P256DH)

	subs, err = s.Subscriptions.ListByUsers(ctx, []string{"alice"})
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestNotificationsListAndMarkRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rows := []model.Notification{
		{ID: uuid.NewString(), UserID: "alice", RoomID: "r1", Type: model.NotifyVisitorRequest, Title: "a", Message: "m", CreatedAt: time.Now().Add(-time.Minute)},
		{ID: uuid.NewString(), UserID: "alice", RoomID: "r1", Type: model.NotifyReservationCreated, Title: "b", Message: "m", CreatedAt: time.Now()},
		{ID: uuid.NewString(), UserID: "bob", RoomID: "r1", Type: model.NotifyReservationCreated, Title: "c", Message: "m", CreatedAt: time.Now()},
	}
	require.NoError(t, s.Notifications.CreateBatch(ctx, rows))

	got, err := s.Notifications.ListByUser(ctx, "alice", false, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Title, "newest first")

	require.NoError(t, s.Notifications.MarkAllRead(ctx, "alice"))

	got, err = s.Notifications.ListByUser(ctx, "alice", true, 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Notifications.ListByUser(ctx, "bob", true, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1, "other users' unread state is untouched")
}
