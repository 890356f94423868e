package schedule

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"roomshare-backend/internal/db"
	"roomshare-backend/internal/model"
	"roomshare-backend/internal/store"
)

// mockNotifier records every notification the engine emits so tests can
// assert on audience and type without a real push stack.
type mockNotifier struct {
	mu     sync.Mutex
	toUser []userNotification
	toRoom []roomNotification
}

type userNotification struct {
	roomID, fromUserID, userID string
	payload                    Notification
}

type roomNotification struct {
	roomID, fromUserID string
	exclude            []string
	payload            Notification
}

func (m *mockNotifier) NotifyUser(_ context.Context, roomID, fromUserID, userID string, n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toUser = append(m.toUser, userNotification{roomID: roomID, fromUserID: fromUserID, userID: userID, payload: n})
}

func (m *mockNotifier) NotifyRoomExcept(_ context.Context, roomID, fromUserID string, exclude []string, n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toRoom = append(m.toRoom, roomNotification{roomID: roomID, fromUserID: fromUserID, exclude: exclude, payload: n})
}

func (m *mockNotifier) userNotifications() []userNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]userNotification(nil), m.toUser...)
}

func (m *mockNotifier) roomNotifications() []roomNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]roomNotification(nil), m.toRoom...)
}

// newTestEngine builds an engine on a fresh in-memory SQLite database.
// Each test gets its own named database so state never leaks across tests.
func newTestEngine(t *testing.T) (*Engine, *store.Store, *mockNotifier) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(testDB))

	s := store.New(testDB)
	notifier := &mockNotifier{}
	engine := NewEngine(s, notifier, zap.NewNop())
	return engine, s, notifier
}

// testRoom is a seeded room with its members and default categories,
// resolved by name for convenience.
type testRoom struct {
	ID       string
	Members  []string
	Laundry  model.ReservationCategory
	Bathroom model.ReservationCategory
	Visitor  model.ReservationCategory
}

// seedRoom creates a room with memberCount members (the first one is the
// owner) and the default categories.
func seedRoom(t *testing.T, engine *Engine, s *store.Store, memberCount int) testRoom {
	t.Helper()
	ctx := context.Background()

	room := testRoom{ID: uuid.NewString()}
	require.NoError(t, s.Rooms.Create(ctx, &model.Room{
		ID:      room.ID,
		Name:    "Test Flat",
		OwnerID: "user-0",
	}))

	for i := 0; i < memberCount; i++ {
		userID := fmt.Sprintf("user-%d", i)
		require.NoError(t, s.Members.Create(ctx, &model.RoomMember{
			ID:       uuid.NewString(),
			RoomID:   room.ID,
			UserID:   userID,
			Nickname: fmt.Sprintf("Member %d", i),
			IsOwner:  i == 0,
		}))
		room.Members = append(room.Members, userID)
	}

	require.NoError(t, engine.EnsureDefaultCategories(ctx, room.ID, "user-0"))

	categories, err := s.Categories.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	for _, c := range categories {
		switch c.Name {
		case "Laundry":
			room.Laundry = c
		case "Bathroom":
			room.Bathroom = c
		case "Visitor":
			room.Visitor = c
		}
	}
	require.NotEmpty(t, room.Laundry.ID)
	require.NotEmpty(t, room.Visitor.ID)
	return room
}

// addMember grows the roster mid-test.
func addMember(t *testing.T, s *store.Store, roomID, userID string) {
	t.Helper()
	require.NoError(t, s.Members.Create(context.Background(), &model.RoomMember{
		ID:     uuid.NewString(),
		RoomID: roomID,
		UserID: userID,
	}))
}

func intPtr(v int) *int { return &v }

// countSlots counts reservation rows matching the given conditions.
func countSlots(t *testing.T, s *store.Store, query string, args ...any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.DB().Model(&model.ReservationSlot{}).Where(query, args...).Count(&count).Error)
	return count
}
