package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

var testWindow = ScanWindow{Before: 2 * time.Hour, After: 2 * time.Hour}

func seedScanFixture(t *testing.T) (*store.Memory, models.Event, models.Ticket, models.User) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()

	user := models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleAttendee}
	require.NoError(t, mem.Users().Create(ctx, &user))

	event := models.Event{
		Name:        "Summer Jam",
		Location:    "Riverside Arena",
		StartAt:     time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC),
		TicketPrice: decimal.NewFromInt(100),
		Capacity:    500,
		Status:      models.EventAvailable,
	}
	require.NoError(t, mem.Events().Create(ctx, &event))

	ticket := models.Ticket{
		UserID:  user.ID,
		EventID: event.ID,
		QRCode:  "qr-alice-1",
		Price:   event.TicketPrice,
		Status:  models.TicketActive,
	}
	require.NoError(t, mem.Tickets().Create(ctx, &ticket))

	return mem, event, ticket, user
}

func TestAttendanceService_RecordScan_InWindow(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)

	logEntry, err := service.RecordScan(context.Background(), ScanInput{
		TicketID:   ticket.ID,
		EventID:    event.ID,
		UserID:     user.ID,
		OccurredAt: time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC),
		Gate:       "north",
	})

	require.NoError(t, err)
	assert.Equal(t, models.ScanValid, logEntry.Status)
	assert.Equal(t, 0, logEntry.ReEntryCount)
	assert.Equal(t, "north", logEntry.Gate)
	assert.NotEmpty(t, logEntry.ID)
}

func TestAttendanceService_RecordScan_OutOfWindow(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	_, err := service.RecordScan(ctx, ScanInput{
		TicketID:   ticket.ID,
		EventID:    event.ID,
		UserID:     user.ID,
		OccurredAt: time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC),
	})

	require.ErrorIs(t, err, status.ErrOutsideScanWindow)

	count, err := mem.Attendance().CountByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "rejected scans must not be persisted")
}

func TestAttendanceService_RecordScan_ReEntry(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	first, err := service.RecordScan(ctx, ScanInput{
		TicketID: ticket.ID, EventID: event.ID, UserID: user.ID,
		OccurredAt: time.Date(2025, 6, 1, 17, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.ReEntryCount)

	second, err := service.RecordScan(ctx, ScanInput{
		TicketID: ticket.ID, EventID: event.ID, UserID: user.ID,
		OccurredAt: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, second.ReEntryCount)
	assert.Equal(t, models.ScanValid, second.Status)

	third, err := service.RecordScan(ctx, ScanInput{
		TicketID: ticket.ID, EventID: event.ID, UserID: user.ID,
		OccurredAt: time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, third.ReEntryCount)
}

func TestAttendanceService_RecordScan_MissingFields(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	occurredAt := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   ScanInput
	}{
		{"missing ticket", ScanInput{EventID: event.ID, UserID: user.ID, OccurredAt: occurredAt}},
		{"missing event", ScanInput{TicketID: ticket.ID, UserID: user.ID, OccurredAt: occurredAt}},
		{"missing user", ScanInput{TicketID: ticket.ID, EventID: event.ID, OccurredAt: occurredAt}},
		{"missing time", ScanInput{TicketID: ticket.ID, EventID: event.ID, UserID: user.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.RecordScan(context.Background(), tt.in)
			assert.ErrorIs(t, err, status.ErrBadRequest)
		})
	}
}

func TestAttendanceService_RecordScan_TicketMismatch(t *testing.T) {
	mem, event, ticket, _ := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	stranger := models.User{Name: "Mallory", Email: "mallory@example.com", Role: models.RoleAttendee}
	require.NoError(t, mem.Users().Create(ctx, &stranger))

	_, err := service.RecordScan(ctx, ScanInput{
		TicketID: ticket.ID, EventID: event.ID, UserID: stranger.ID,
		OccurredAt: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, status.ErrBadRequest)
}

func TestAttendanceService_RecordScan_RefundedTicket(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	ticket.Status = models.TicketRefunded
	require.NoError(t, mem.Tickets().Update(ctx, &ticket))

	_, err := service.RecordScan(ctx, ScanInput{
		TicketID: ticket.ID, EventID: event.ID, UserID: user.ID,
		OccurredAt: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, status.ErrTicketInvalid)
}

func TestAttendanceService_RecordScan_UnknownEvent(t *testing.T) {
	mem, _, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)

	_, err := service.RecordScan(context.Background(), ScanInput{
		TicketID: ticket.ID, EventID: "missing", UserID: user.ID,
		OccurredAt: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, status.ErrNotFound)
}

// Concurrent scans of the same ticket must produce gapless re-entry counts.
func TestAttendanceService_RecordScan_ConcurrentSameTicket(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()
	occurredAt := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	const scans = 20
	var wg sync.WaitGroup
	for i := 0; i < scans; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RecordScan(ctx, ScanInput{
				TicketID: ticket.ID, EventID: event.ID, UserID: user.ID,
				OccurredAt: occurredAt,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	logs, err := mem.Attendance().ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, logs, scans)

	// ListByEvent returns logs in insertion order; the counts must be
	// the exact sequence 0..scans-1 with no gaps or repeats.
	for i, l := range logs {
		assert.Equal(t, i, l.ReEntryCount)
	}
}

func TestAttendanceService_RecentByEvent_CapAndOrder(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		require.NoError(t, mem.Attendance().Create(ctx, &models.AttendanceLog{
			TicketID:   ticket.ID,
			EventID:    event.ID,
			UserID:     user.ID,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
			Status:     models.ScanValid,
		}))
	}

	recent, err := service.RecentByEvent(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, recent, 25)

	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].OccurredAt.After(recent[i-1].OccurredAt),
			"recent logs must be newest first")
	}
	assert.Equal(t, base.Add(29*time.Minute), recent[0].OccurredAt)
}

func TestAttendanceService_Stats(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	statuses := []string{models.ScanValid, models.ScanValid, models.ScanOutOfWindow}
	for i, s := range statuses {
		require.NoError(t, mem.Attendance().Create(ctx, &models.AttendanceLog{
			TicketID:   ticket.ID,
			EventID:    event.ID,
			UserID:     user.ID,
			OccurredAt: time.Date(2025, 6, 1, 18, i, 0, 0, time.UTC),
			Status:     s,
		}))
	}

	stats, err := service.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.CheckInCount)
	assert.Equal(t, int64(3), stats.TotalLogs)
}

func TestAttendanceService_Stats_Cached(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	ctx := context.Background()

	require.NoError(t, mem.Attendance().Create(ctx, &models.AttendanceLog{
		TicketID:   ticket.ID,
		EventID:    event.ID,
		UserID:     user.ID,
		OccurredAt: time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		Status:     models.ScanValid,
	}))

	db, mock := redismock.NewClientMock()
	service := NewAttendanceService(mem, testWindow, db)

	key := fmt.Sprintf("attendance:stats:%s", event.ID)
	payload := []byte(`{"checkInCount":1,"totalLogs":1}`)

	// First call misses the cache and stores the result.
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, payload, statsCacheTTL).SetVal("OK")
	stats, err := service.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CheckInCount)

	// Second call is served from the cache.
	mock.ExpectGet(key).SetVal(string(payload))
	stats, err = service.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalLogs)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceService_LogLookupAndDelete(t *testing.T) {
	mem, event, ticket, user := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)
	ctx := context.Background()

	logEntry, err := service.RecordScan(ctx, ScanInput{
		TicketID:   ticket.ID,
		EventID:    event.ID,
		UserID:     user.ID,
		OccurredAt: time.Date(2025, 6, 1, 18, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := service.GetLog(ctx, logEntry.ID)
	require.NoError(t, err)
	assert.Equal(t, logEntry.ID, got.ID)

	all, err := service.ListLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	byUser, err := service.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	byEvent, err := service.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 1)

	require.NoError(t, service.DeleteLog(ctx, logEntry.ID))

	_, err = service.GetLog(ctx, logEntry.ID)
	assert.ErrorIs(t, err, status.ErrNotFound)

	stats, err := service.Stats(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalLogs)
}

func TestAttendanceService_DeleteLog_Unknown(t *testing.T) {
	mem, _, _, _ := seedScanFixture(t)
	service := NewAttendanceService(mem, testWindow, nil)

	err := service.DeleteLog(context.Background(), "missing")
	assert.ErrorIs(t, err, status.ErrNotFound)
}
