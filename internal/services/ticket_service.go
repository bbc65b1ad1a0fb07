package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
	"ticketing-system/utils"
)

const defaultTicketType = "REGULAR"

// BookingInput describes a ticket purchase request.
type BookingInput struct {
	UserID     string
	EventID    string
	Quantity   int
	TicketType string
	Method     string
}

// BookingResult is what a successful purchase produced.
type BookingResult struct {
	Tickets []models.Ticket `json:"tickets"`
	Payment models.Payment  `json:"payment"`
}

// TicketService handles ticket purchases and lookups. Prices are frozen at
// purchase time from the event's current ticket price.
type TicketService struct {
	store    store.Store
	clock    clock.Clock
	notifier Notifier
}

func NewTicketService(st store.Store, cl clock.Clock, notifier Notifier) *TicketService {
	return &TicketService{store: st, clock: cl, notifier: notifier}
}

// BookTickets purchases tickets for a user. Each ticket gets a fresh unique
// QR code; one payment row covers the whole purchase. Cancelled events and
// sold-out events refuse the booking.
func (s *TicketService) BookTickets(ctx context.Context, in BookingInput) (*BookingResult, error) {
	if in.UserID == "" || in.EventID == "" {
		return nil, fmt.Errorf("user and event are required: %w", status.ErrBadRequest)
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	ticketType := strings.TrimSpace(in.TicketType)
	if ticketType == "" {
		ticketType = defaultTicketType
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = "qr_code"
	}

	reference, err := utils.GenerateCode(8)
	if err != nil {
		return nil, fmt.Errorf("generate transaction reference: %w", err)
	}

	var result BookingResult
	err = s.store.WithTx(ctx, func(tx store.Store) error {
		user, err := tx.Users().GetByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		event, err := tx.Events().GetByID(ctx, in.EventID)
		if err != nil {
			return err
		}
		if event.Status == models.EventCancelled {
			return fmt.Errorf("event %s is cancelled: %w", event.ID, status.ErrConflict)
		}
		if event.Capacity > 0 && event.TicketsSold+in.Quantity > event.Capacity {
			return fmt.Errorf("event %s is sold out: %w", event.ID, status.ErrConflict)
		}

		now := s.clock.Now()
		total := decimal.Zero
		result.Tickets = result.Tickets[:0]
		for i := 0; i < in.Quantity; i++ {
			ticket := models.Ticket{
				UserID:      user.ID,
				EventID:     event.ID,
				QRCode:      uuid.NewString(),
				Price:       event.TicketPrice,
				PurchasedAt: now,
				TicketType:  ticketType,
				Status:      models.TicketActive,
			}
			if err := tx.Tickets().Create(ctx, &ticket); err != nil {
				return err
			}
			total = total.Add(ticket.Price)
			result.Tickets = append(result.Tickets, ticket)
		}

		result.Payment = models.Payment{
			UserID:               user.ID,
			EventID:              event.ID,
			Amount:               total,
			PaidAt:               now,
			Method:               method,
			Status:               "COMPLETED",
			TransactionReference: reference,
		}
		if err := tx.Payments().Create(ctx, &result.Payment); err != nil {
			return err
		}
		return tx.Events().IncrementTicketsSold(ctx, event.ID, in.Quantity)
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, models.Notification{
			UserID:   in.UserID,
			Severity: models.SeveritySuccess,
			Title:    "Booking Confirmed",
			Body: fmt.Sprintf("Your %d ticket(s) are booked. Total paid: %s (ref %s).",
				len(result.Tickets), result.Payment.Amount.StringFixed(2), reference),
			EventID: in.EventID,
		})
	}
	return &result, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	return s.store.Tickets().GetByID(ctx, id)
}

func (s *TicketService) GetTicketByQRCode(ctx context.Context, qrCode string) (*models.Ticket, error) {
	if qrCode == "" {
		return nil, fmt.Errorf("qr code is required: %w", status.ErrBadRequest)
	}
	return s.store.Tickets().GetByQRCode(ctx, qrCode)
}

func (s *TicketService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.store.Tickets().List(ctx)
}

func (s *TicketService) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	return s.store.Tickets().ListByUser(ctx, userID)
}

func (s *TicketService) ListByEvent(ctx context.Context, eventID string) ([]models.Ticket, error) {
	return s.store.Tickets().ListByEvent(ctx, eventID)
}

// UpdateTicket applies the mutable ticket fields. Ownership, price and the
// QR code are frozen at purchase and cannot be rewritten here.
func (s *TicketService) UpdateTicket(ctx context.Context, ticket *models.Ticket) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		current, err := tx.Tickets().GetByID(ctx, ticket.ID)
		if err != nil {
			return err
		}
		if ticket.TicketType != "" {
			current.TicketType = ticket.TicketType
		}
		if ticket.Status != "" {
			current.Status = strings.ToUpper(ticket.Status)
		}
		if err := tx.Tickets().Update(ctx, current); err != nil {
			return err
		}
		*ticket = *current
		return nil
	})
}

func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	return s.store.WithTx(ctx, func(tx store.Store) error {
		if _, err := tx.Tickets().GetByID(ctx, id); err != nil {
			return err
		}
		return tx.Tickets().Delete(ctx, id)
	})
}

// RefundTicket flips a single ticket to REFUNDED outside any event-level
// cancellation. Terminal tickets refuse the refund.
func (s *TicketService) RefundTicket(ctx context.Context, ticketID string) (*models.Ticket, error) {
	var refunded *models.Ticket
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		if !ticket.Refundable() {
			return fmt.Errorf("ticket %s is %s: %w", ticket.ID, ticket.Status, status.ErrConflict)
		}
		ticket.Status = models.TicketRefunded
		if err := tx.Tickets().Update(ctx, ticket); err != nil {
			return err
		}
		refunded = ticket
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, models.Notification{
			UserID:   refunded.UserID,
			Severity: models.SeverityInfo,
			Title:    "Ticket Refunded",
			Body:     fmt.Sprintf("A refund of %s has been issued for your ticket.", refunded.Price.StringFixed(2)),
			EventID:  refunded.EventID,
		})
	}
	return refunded, nil
}
