package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

type publisherSpy struct {
	mu       sync.Mutex
	channels []string
	err      error
}

func (p *publisherSpy) Publish(_ context.Context, channel string, _ map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.channels = append(p.channels, channel)
	return p.err
}

func TestNotificationService_Notify_PersistsAndPublishes(t *testing.T) {
	mem := store.NewMemory()
	spy := &publisherSpy{}
	service := NewNotificationService(mem, spy, clock.NewFixed(testNow))
	ctx := context.Background()

	service.Notify(ctx, models.Notification{
		UserID:   "u1",
		Severity: models.SeverityWarning,
		Title:    "Event Cancelled - Refund Issued",
		Body:     "details",
		EventID:  "e1",
	})

	stored, err := service.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, testNow, stored[0].CreatedAt)

	assert.Equal(t, []string{"user-u1"}, spy.channels)
}

func TestNotificationService_Notify_PublisherFailureIsSwallowed(t *testing.T) {
	mem := store.NewMemory()
	spy := &publisherSpy{err: errors.New("broker down")}
	service := NewNotificationService(mem, spy, clock.NewFixed(testNow))
	ctx := context.Background()

	// Must not panic or surface the error; the row still lands.
	service.Notify(ctx, models.Notification{UserID: "u1", Title: "Hello"})

	stored, err := service.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestNotificationService_Notify_NilPublisher(t *testing.T) {
	mem := store.NewMemory()
	service := NewNotificationService(mem, nil, clock.NewFixed(testNow))
	ctx := context.Background()

	service.Notify(ctx, models.Notification{UserID: "u1", Title: "Store only"})

	stored, err := service.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestNotificationService_Notify_BreakerStopsHammeringDeadBroker(t *testing.T) {
	mem := store.NewMemory()
	spy := &publisherSpy{err: errors.New("broker down")}
	service := NewNotificationService(mem, spy, clock.NewFixed(testNow))
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		service.Notify(ctx, models.Notification{UserID: "u1", Title: "spam"})
	}

	// The breaker opens after its failure threshold; later publishes are
	// skipped while every row is still persisted.
	assert.Less(t, len(spy.channels), 10)

	stored, err := service.ListForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, stored, 10)
}
