package services

import (
	"context"
	"log/slog"

	pubnub "github.com/pubnub/go"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/store"
	"ticketing-system/models"
	"ticketing-system/utils"
)

// Notifier is the fire-and-forget notification sink. Implementations must
// never fail the caller: dispatch errors are logged and swallowed so a
// notification problem cannot roll back a business operation.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// RealtimePublisher pushes a message to a named channel. Satisfied by the
// PubNub client in production and by fakes in tests.
type RealtimePublisher interface {
	Publish(ctx context.Context, channel string, message map[string]any) error
}

type pubnubPublisher struct {
	pn *pubnub.PubNub
}

// NewPubNubPublisher wraps a PubNub client as a RealtimePublisher.
func NewPubNubPublisher(pn *pubnub.PubNub) RealtimePublisher {
	return pubnubPublisher{pn: pn}
}

func (p pubnubPublisher) Publish(ctx context.Context, channel string, message map[string]any) error {
	_, _, err := p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	return err
}

// NotificationService persists every notification and fans it out over the
// recipient's realtime channel. The realtime leg goes through a circuit
// breaker so a dead broker degrades to store-only delivery instead of
// stalling every request.
type NotificationService struct {
	store     store.Store
	publisher RealtimePublisher
	breaker   *utils.CircuitBreaker
	clock     clock.Clock
}

func NewNotificationService(st store.Store, publisher RealtimePublisher, cl clock.Clock) *NotificationService {
	return &NotificationService{
		store:     st,
		publisher: publisher,
		breaker:   utils.NewCircuitBreaker("realtime-notify"),
		clock:     cl,
	}
}

func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	n.CreatedAt = s.clock.Now()

	if err := s.store.Notifications().Create(ctx, &n); err != nil {
		slog.Error("persist notification", "error", err, "user_id", n.UserID, "title", n.Title)
		return
	}

	if s.publisher == nil {
		return
	}
	channel := "user-" + n.UserID
	err := s.breaker.Execute(ctx, func() error {
		return s.publisher.Publish(ctx, channel, map[string]any{
			"type":     "notification",
			"severity": n.Severity,
			"title":    n.Title,
			"body":     n.Body,
			"event_id": n.EventID,
		})
	})
	if err != nil {
		slog.Warn("realtime notification dropped", "error", err, "channel", channel)
	}
}

// ListForUser returns a user's stored notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.store.Notifications().ListByUser(ctx, userID)
}
