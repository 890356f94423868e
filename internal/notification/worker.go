package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"roomshare-backend/internal/model"
	"roomshare-backend/internal/schedule"
	"roomshare-backend/internal/store"
)

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// audience selects the recipients of one notification job.
type audience struct {
	userID  string   // single recipient, or
	exclude []string // everyone in the room except these
}

type job struct {
	roomID     string
	fromUserID string
	audience   audience
	payload    schedule.Notification
}

// WorkerPool delivers notifications off the request path: it persists
// in-app notification rows and pushes to registered browser subscriptions.
// It implements schedule.Notifier; delivery failures are logged and never
// surfaced to the operation that triggered them.
type WorkerPool struct {
	size    int
	jobs    chan job
	store   *store.Store
	webpush *webpush.Options
	sender  Sender
	logger  *zap.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s *store.Store, webpushOptions *webpush.Options, logger *zap.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan job, size*4),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		logger:  logger,
	}
}

// SetSender overrides the push sender. Used by tests.
func (wp *WorkerPool) SetSender(s Sender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case j := <-wp.jobs:
			wp.deliver(ctx, j)
		case <-ctx.Done():
			wp.logger.Debug("notification worker shutting down", zap.Int("worker", id))
			return
		}
	}
}

// NotifyUser implements schedule.Notifier.
func (wp *WorkerPool) NotifyUser(_ context.Context, roomID, fromUserID, userID string, n schedule.Notification) {
	wp.dispatch(job{roomID: roomID, fromUserID: fromUserID, audience: audience{userID: userID}, payload: n})
}

// NotifyRoomExcept implements schedule.Notifier.
func (wp *WorkerPool) NotifyRoomExcept(_ context.Context, roomID, fromUserID string, exclude []string, n schedule.Notification) {
	wp.dispatch(job{roomID: roomID, fromUserID: fromUserID, audience: audience{exclude: exclude}, payload: n})
}

func (wp *WorkerPool) dispatch(j job) {
	select {
	case wp.jobs <- j:
	default:
		wp.logger.Warn("notification queue full, dropping notification",
			zap.String("room_id", j.roomID),
			zap.String("type", string(j.payload.Type)))
	}
}

// deliver resolves the audience, persists notification rows and sends web
// push messages. Uses the worker's context, not the request's: the
// triggering operation has already committed.
func (wp *WorkerPool) deliver(ctx context.Context, j job) {
	recipients, err := wp.resolveRecipients(ctx, j)
	if err != nil {
		wp.logger.Error("failed to resolve notification recipients",
			zap.String("room_id", j.roomID), zap.Error(err))
		return
	}
	if len(recipients) == 0 {
		return
	}

	related := ""
	if j.payload.RelatedData != nil {
		if data, err := json.Marshal(j.payload.RelatedData); err == nil {
			related = string(data)
		}
	}

	now := time.Now()
	rows := make([]model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		rows = append(rows, model.Notification{
			ID:          uuid.NewString(),
			UserID:      userID,
			FromUserID:  j.fromUserID,
			RoomID:      j.roomID,
			Type:        j.payload.Type,
			Title:       j.payload.Title,
			Message:     j.payload.Message,
			RelatedData: related,
			CreatedAt:   now,
		})
	}
	if err := wp.store.Notifications.CreateBatch(ctx, rows); err != nil {
		wp.logger.Error("failed to persist notifications",
			zap.String("room_id", j.roomID), zap.Error(err))
		// Fall through: push delivery is still worth attempting.
	}

	wp.push(ctx, recipients, j.payload)
}

func (wp *WorkerPool) resolveRecipients(ctx context.Context, j job) ([]string, error) {
	if j.audience.userID != "" {
		return []string{j.audience.userID}, nil
	}

	userIDs, err := wp.store.Members.ListUserIDs(ctx, j.roomID)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(j.audience.exclude)+1)
	skip[j.fromUserID] = true
	for _, id := range j.audience.exclude {
		skip[id] = true
	}

	recipients := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if !skip[id] {
			recipients = append(recipients, id)
		}
	}
	return recipients, nil
}

func (wp *WorkerPool) push(ctx context.Context, recipients []string, n schedule.Notification) {
	subs, err := wp.store.Subscriptions.ListByUsers(ctx, recipients)
	if err != nil {
		wp.logger.Error("failed to fetch push subscriptions", zap.Error(err))
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]any{
		"type":    n.Type,
		"title":   n.Title,
		"message": n.Message,
		"data":    n.RelatedData,
	})
	if err != nil {
		wp.logger.Error("failed to encode push payload", zap.Error(err))
		return
	}

	for _, sub := range subs {
		wp.send(ctx, sub, payload)
	}
}

func (wp *WorkerPool) send(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.logger.Warn("failed to send push notification",
			zap.String("endpoint", sub.Endpoint), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed on the spot.
	if resp.StatusCode == http.StatusGone {
		wp.logger.Info("push subscription expired, deleting",
			zap.String("endpoint", sub.Endpoint))
		if err := wp.store.Subscriptions.Delete(ctx, sub.Endpoint); err != nil {
			wp.logger.Error("failed to delete expired subscription",
				zap.String("endpoint", sub.Endpoint), zap.Error(err))
		}
	}
}
