package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
	"ticketing-system/monitoring"
)

const defaultCancellationReason = "Unforeseen circumstances"

// EventService owns the event lifecycle: CRUD, transactional cancellation
// with bulk refunds, ticket-free deletion, and unique-view tracking.
type EventService struct {
	store    store.Store
	clock    clock.Clock
	notifier Notifier
}

func NewEventService(st store.Store, cl clock.Clock, notifier Notifier) *EventService {
	return &EventService{store: st, clock: cl, notifier: notifier}
}

// CancelEvent cancels the event and refunds every outstanding ticket.
//
// The refund loop and the event transition commit in one transaction.
// Notifications go out only after commit so no message ever claims a refund
// that was not persisted; dispatch failures are logged and swallowed.
func (s *EventService) CancelEvent(ctx context.Context, eventID, reason string) (*models.CancelEventResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancellationReason
	}

	var (
		event    *models.Event
		refunded []models.Ticket
		total    = decimal.Zero
	)
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		event, err = tx.Events().GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event.Status == models.EventCancelled {
			return fmt.Errorf("event %s: %w", eventID, status.ErrAlreadyCancelled)
		}

		tickets, err := tx.Tickets().ListByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		for _, t := range tickets {
			if !t.Refundable() {
				continue
			}
			t.Status = models.TicketRefunded
			if err := tx.Tickets().Update(ctx, &t); err != nil {
				return err
			}
			total = total.Add(t.Price)
			refunded = append(refunded, t)
		}

		now := s.clock.Now()
		event.Status = models.EventCancelled
		event.CancellationReason = reason
		event.CancelledAt = &now
		return tx.Events().Update(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	monitoring.TrackRefunds(len(refunded), total)
	s.notifyCancellation(ctx, event, reason, refunded, total)

	return &models.CancelEventResult{
		Success:           true,
		Message:           fmt.Sprintf("Event %q cancelled, %d tickets refunded", event.Name, len(refunded)),
		TicketsRefunded:   len(refunded),
		TotalRefundAmount: total,
	}, nil
}

func (s *EventService) notifyCancellation(ctx context.Context, event *models.Event, reason string, refunded []models.Ticket, total decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	for _, t := range refunded {
		s.notifier.Notify(ctx, models.Notification{
			UserID:   t.UserID,
			Severity: models.SeverityWarning,
			Title:    "Event Cancelled - Refund Issued",
			Body: fmt.Sprintf("%q has been cancelled (%s). A refund of %s has been issued for your ticket.",
				event.Name, reason, t.Price.StringFixed(2)),
			EventID: event.ID,
		})
	}
	if organizer := s.resolveOrganizer(ctx, event.Organizer); organizer != nil {
		s.notifier.Notify(ctx, models.Notification{
			UserID:   organizer.ID,
			Severity: models.SeverityError,
			Title:    "Event Cancelled",
			Body: fmt.Sprintf("%q was cancelled. %d tickets refunded, %s total.",
				event.Name, len(refunded), total.StringFixed(2)),
			EventID: event.ID,
		})
	}
}

// resolveOrganizer maps the event's free-form organizer field to a user, if
// there is one. Display-only organizer strings get no notification.
func (s *EventService) resolveOrganizer(ctx context.Context, organizerRef string) *models.User {
	if organizerRef == "" {
		return nil
	}
	user, err := s.store.Users().GetByID(ctx, organizerRef)
	if err != nil {
		if !errors.Is(err, status.ErrNotFound) {
			slog.Warn("resolve organizer", "error", err, "organizer", organizerRef)
		}
		return nil
	}
	return user
}

// DeleteEvent removes an event that has no tickets, cascading its attendance
// logs, payments and view rows first. With tickets present it refuses and
// changes nothing.
func (s *EventService) DeleteEvent(ctx context.Context, eventID string) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.Events().GetByID(ctx, eventID); err != nil {
			return err
		}
		count, err := tx.Tickets().CountByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("event %s still has %d tickets: %w", eventID, count, status.ErrConflict)
		}

		if err := tx.Attendance().DeleteByEvent(ctx, eventID); err != nil {
			return err
		}
		if err := tx.Payments().DeleteByEvent(ctx, eventID); err != nil {
			return err
		}
		if err := tx.Views().DeleteByEvent(ctx, eventID); err != nil {
			return err
		}
		return tx.Events().Delete(ctx, eventID)
	})
}

// TrackUniqueView counts a first-time event page visit by an attendee. The
// (event, user) uniqueness constraint makes the count race-free: losing the
// insert race means someone else already counted this pair.
func (s *EventService) TrackUniqueView(ctx context.Context, eventID, userID, role string) error {
	if !strings.EqualFold(role, models.RoleAttendee) {
		return nil
	}
	if eventID == "" || userID == "" {
		return fmt.Errorf("event and user are required: %w", status.ErrBadRequest)
	}

	err := s.store.WithTx(ctx, func(tx store.Store) error {
		if err := tx.Views().Create(ctx, models.EventView{EventID: eventID, UserID: userID}); err != nil {
			return err
		}
		return tx.Events().IncrementViews(ctx, eventID)
	})
	if errors.Is(err, status.ErrAlreadyCounted) {
		return nil
	}
	if err == nil {
		monitoring.TrackUniqueView()
	}
	return err
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.store.Events().GetByID(ctx, id)
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.store.Events().List(ctx)
}

// CreateEvent persists a new event and notifies the organizer, when the
// organizer field resolves to a user.
func (s *EventService) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := validateEventSchedule(event); err != nil {
		return err
	}
	if event.Status == "" {
		event.Status = models.EventAvailable
	}
	if err := s.store.Events().Create(ctx, event); err != nil {
		return err
	}

	if s.notifier != nil {
		if organizer := s.resolveOrganizer(ctx, event.Organizer); organizer != nil {
			s.notifier.Notify(ctx, models.Notification{
				UserID:   organizer.ID,
				Severity: models.SeveritySuccess,
				Title:    "Event Created",
				Body:     fmt.Sprintf("%q is live and ready for ticket sales.", event.Name),
				EventID:  event.ID,
			})
		}
	}
	return nil
}

// UpdateEvent applies the client-editable fields onto the stored event.
// View counts, sales figures and cancellation state are server-owned: they
// survive the update untouched.
func (s *EventService) UpdateEvent(ctx context.Context, event *models.Event) error {
	if err := validateEventSchedule(event); err != nil {
		return err
	}
	return s.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.Events().GetByID(ctx, event.ID)
		if err != nil {
			return err
		}
		current.Name = event.Name
		current.Location = event.Location
		current.Category = event.Category
		current.StartAt = event.StartAt
		current.EndAt = event.EndAt
		current.TicketPrice = event.TicketPrice
		current.Capacity = event.Capacity
		current.Organizer = event.Organizer
		current.Description = event.Description
		if err := tx.Events().Update(ctx, current); err != nil {
			return err
		}
		*event = *current
		return nil
	})
}

func validateEventSchedule(event *models.Event) error {
	if event.Name == "" {
		return fmt.Errorf("event name is required: %w", status.ErrBadRequest)
	}
	if !event.StartAt.IsZero() && !event.EndAt.IsZero() && event.EndAt.Before(event.StartAt) {
		return fmt.Errorf("event ends before it starts: %w", status.ErrBadRequest)
	}
	return nil
}
