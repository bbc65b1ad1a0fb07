// Package store is the persistence gateway. Services talk to these
// interfaces only; the PocketBase implementation backs production and the
// in-memory implementation backs tests.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"ticketing-system/models"
)

// Store bundles the per-entity gateways. WithTx runs fn against a store view
// whose writes commit atomically; any error aborts the whole transaction.
type Store interface {
	Events() EventStore
	Tickets() TicketStore
	Payments() PaymentStore
	Attendance() AttendanceStore
	Views() ViewStore
	Users() UserStore
	Roles() RoleStore
	Notifications() NotificationStore

	WithTx(ctx context.Context, fn func(tx Store) error) error
}

type EventStore interface {
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error

	// IncrementViews bumps view_count by one atomically.
	IncrementViews(ctx context.Context, id string) error
	// IncrementTicketsSold bumps tickets_sold by delta atomically.
	IncrementTicketsSold(ctx context.Context, id string, delta int) error
}

type TicketStore interface {
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	GetByQRCode(ctx context.Context, qrCode string) (*models.Ticket, error)
	List(ctx context.Context) ([]models.Ticket, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]models.Ticket, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	SumPriceByEvent(ctx context.Context, eventID string) (decimal.Decimal, error)
	SumPriceByUser(ctx context.Context, userID string) (decimal.Decimal, error)
	Create(ctx context.Context, ticket *models.Ticket) error
	Update(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id string) error
}

type PaymentStore interface {
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	GetByTransactionReference(ctx context.Context, ref string) (*models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
	DeleteByEvent(ctx context.Context, eventID string) error
}

type AttendanceStore interface {
	GetByID(ctx context.Context, id string) (*models.AttendanceLog, error)
	List(ctx context.Context) ([]models.AttendanceLog, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.AttendanceLog, error)
	ListByUser(ctx context.Context, userID string) ([]models.AttendanceLog, error)

	// RecentByEvent returns up to limit logs, newest first. Ties on
	// occurred_at break on id, higher id first.
	RecentByEvent(ctx context.Context, eventID string, limit int) ([]models.AttendanceLog, error)
	// LatestByTicket returns the most recent log for a ticket, or nil when
	// the ticket has never been scanned.
	LatestByTicket(ctx context.Context, ticketID string) (*models.AttendanceLog, error)

	CountByEvent(ctx context.Context, eventID string) (int64, error)
	// ValidCountByEvent counts logs whose status contains "valid",
	// case-insensitively.
	ValidCountByEvent(ctx context.Context, eventID string) (int64, error)

	Create(ctx context.Context, log *models.AttendanceLog) error
	Delete(ctx context.Context, id string) error
	DeleteByEvent(ctx context.Context, eventID string) error
}

type ViewStore interface {
	Exists(ctx context.Context, eventID, userID string) (bool, error)
	// Create inserts the (event, user) pair. A uniqueness violation is
	// reported as status.ErrAlreadyCounted.
	Create(ctx context.Context, view models.EventView) error
	DeleteByEvent(ctx context.Context, eventID string) error
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type RoleStore interface {
	GetByID(ctx context.Context, id string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	Update(ctx context.Context, role *models.Role) error
	Delete(ctx context.Context, id string) error
}

type NotificationStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Notification, error)
	Create(ctx context.Context, n *models.Notification) error
}
