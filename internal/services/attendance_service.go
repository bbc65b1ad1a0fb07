package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
	"ticketing-system/monitoring"
)

const (
	recentScanLimit = 25
	statsCacheTTL   = 30 * time.Second
)

// ScanInput is one presentation of a ticket at a gate.
type ScanInput struct {
	TicketID   string
	EventID    string
	UserID     string
	OccurredAt time.Time
	Gate       string
}

// AttendanceService validates and records ticket scans and serves the
// recent-activity and stats queries behind the scanner dashboard.
type AttendanceService struct {
	store  store.Store
	window ScanWindow
	redis  *redis.Client // optional stats cache; nil disables caching
}

func NewAttendanceService(st store.Store, window ScanWindow, redisClient *redis.Client) *AttendanceService {
	return &AttendanceService{store: st, window: window, redis: redisClient}
}

// RecordScan validates a scan and persists its attendance log.
//
// The checks run in order: structural validation, scan-window check against
// the event schedule, cross-reference of the ticket against the claimed
// event and user, ticket state check, then re-entry computation from the
// ticket's most recent prior log. Everything from the event read to the log
// write happens in one transaction so two simultaneous scans of the same
// ticket cannot compute the same re-entry count.
func (s *AttendanceService) RecordScan(ctx context.Context, in ScanInput) (*models.AttendanceLog, error) {
	if in.TicketID == "" || in.EventID == "" || in.UserID == "" || in.OccurredAt.IsZero() {
		return nil, fmt.Errorf("ticket, event, user and scan time are required: %w", status.ErrBadRequest)
	}

	var logEntry *models.AttendanceLog
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		event, err := tx.Events().GetByID(ctx, in.EventID)
		if err != nil {
			return err
		}
		if !s.window.Contains(in.OccurredAt, event.StartAt, event.EndAt) {
			return fmt.Errorf("scan at %s for event %s: %w",
				in.OccurredAt.Format(time.RFC3339), event.ID, status.ErrOutsideScanWindow)
		}

		ticket, err := tx.Tickets().GetByID(ctx, in.TicketID)
		if err != nil {
			return err
		}
		if ticket.EventID != in.EventID || ticket.UserID != in.UserID {
			return fmt.Errorf("ticket %s does not match event/user: %w", ticket.ID, status.ErrBadRequest)
		}
		if !ticket.Scannable() {
			return fmt.Errorf("ticket %s is %s: %w", ticket.ID, ticket.Status, status.ErrTicketInvalid)
		}

		prior, err := tx.Attendance().LatestByTicket(ctx, in.TicketID)
		if err != nil {
			return err
		}
		reEntry := 0
		if prior != nil && prior.Status == models.ScanValid {
			reEntry = prior.ReEntryCount + 1
		}

		logEntry = &models.AttendanceLog{
			TicketID:     in.TicketID,
			EventID:      in.EventID,
			UserID:       in.UserID,
			OccurredAt:   in.OccurredAt,
			Status:       models.ScanValid,
			ReEntryCount: reEntry,
			Gate:         in.Gate,
		}
		return tx.Attendance().Create(ctx, logEntry)
	})
	if err != nil {
		monitoring.TrackScan("rejected")
		return nil, err
	}

	monitoring.TrackScan(logEntry.Status)
	s.invalidateStats(ctx, in.EventID)
	return logEntry, nil
}

func (s *AttendanceService) GetLog(ctx context.Context, id string) (*models.AttendanceLog, error) {
	return s.store.Attendance().GetByID(ctx, id)
}

func (s *AttendanceService) ListLogs(ctx context.Context) ([]models.AttendanceLog, error) {
	return s.store.Attendance().List(ctx)
}

func (s *AttendanceService) ListByUser(ctx context.Context, userID string) ([]models.AttendanceLog, error) {
	return s.store.Attendance().ListByUser(ctx, userID)
}

func (s *AttendanceService) ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceLog, error) {
	return s.store.Attendance().ListByEvent(ctx, eventID)
}

// DeleteLog removes a log and drops the cached stats it contributed to.
func (s *AttendanceService) DeleteLog(ctx context.Context, id string) error {
	logEntry, err := s.store.Attendance().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Attendance().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, logEntry.EventID)
	return nil
}

// RecentByEvent returns up to 25 logs for the event, newest first.
func (s *AttendanceService) RecentByEvent(ctx context.Context, eventID string) ([]models.AttendanceLog, error) {
	return s.store.Attendance().RecentByEvent(ctx, eventID, recentScanLimit)
}

// Stats returns the check-in and total log counts for an event. Results are
// cached in redis for a short window since the scanner dashboard polls this.
func (s *AttendanceService) Stats(ctx context.Context, eventID string) (*models.AttendanceStats, error) {
	key := statsCacheKey(eventID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var stats models.AttendanceStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	checkIns, err := s.store.Attendance().ValidCountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Attendance().CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := &models.AttendanceStats{CheckInCount: checkIns, TotalLogs: total}
	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, key, payload, statsCacheTTL).Err(); err != nil {
				slog.Warn("cache attendance stats", "error", err, "event_id", eventID)
			}
		}
	}
	return stats, nil
}

func (s *AttendanceService) invalidateStats(ctx context.Context, eventID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey(eventID)).Err(); err != nil {
		slog.Warn("invalidate attendance stats", "error", err, "event_id", eventID)
	}
}

func statsCacheKey(eventID string) string {
	return fmt.Sprintf("attendance:stats:%s", eventID)
}
