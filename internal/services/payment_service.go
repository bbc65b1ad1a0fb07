package services

import (
	"context"
	"fmt"

	"ticketing-system/internal/clock"
	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

// PaymentService is record keeping only: the system never moves money, it
// stores a payment row with a status and a reference string.
type PaymentService struct {
	store store.Store
	clock clock.Clock
}

func NewPaymentService(st store.Store, cl clock.Clock) *PaymentService {
	return &PaymentService{store: st, clock: cl}
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*models.Payment, error) {
	return s.store.Payments().GetByID(ctx, id)
}

func (s *PaymentService) GetByReference(ctx context.Context, ref string) (*models.Payment, error) {
	if ref == "" {
		return nil, fmt.Errorf("transaction reference is required: %w", status.ErrBadRequest)
	}
	return s.store.Payments().GetByTransactionReference(ctx, ref)
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	return s.store.Payments().List(ctx)
}

func (s *PaymentService) ListByUser(ctx context.Context, userID string) ([]models.Payment, error) {
	return s.store.Payments().ListByUser(ctx, userID)
}

func (s *PaymentService) ListByEvent(ctx context.Context, eventID string) ([]models.Payment, error) {
	return s.store.Payments().ListByEvent(ctx, eventID)
}

func (s *PaymentService) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.UserID == "" || p.EventID == "" || p.TransactionReference == "" {
		return fmt.Errorf("user, event and transaction reference are required: %w", status.ErrBadRequest)
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = s.clock.Now()
	}
	if p.Status == "" {
		p.Status = "PENDING"
	}
	return s.store.Payments().Create(ctx, p)
}

// UpdateStatus moves a payment to a new status, e.g. PENDING -> COMPLETED.
func (s *PaymentService) UpdateStatus(ctx context.Context, id, newStatus string) (*models.Payment, error) {
	if newStatus == "" {
		return nil, fmt.Errorf("status is required: %w", status.ErrBadRequest)
	}
	payment, err := s.store.Payments().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payment.Status = newStatus
	if err := s.store.Payments().Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}
