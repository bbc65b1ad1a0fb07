package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the canonical lifecycle state of an event. The database may
// still hold legacy spellings written by earlier releases; ParseEventStatus
// normalizes those on read, writes always emit the canonical name.
type EventStatus string

const (
	EventAvailable EventStatus = "AVAILABLE"
	EventEnded     EventStatus = "ENDED"
	EventCancelled EventStatus = "CANCELLED"
	EventArchived  EventStatus = "ARCHIVED"
)

// ParseEventStatus maps a stored status string to its canonical value.
// Legacy values: ACTIVE/PUBLISHED/PUBLIC -> AVAILABLE, EXPIRED -> ENDED,
// CANCELED (single L) -> CANCELLED. Unknown values default to AVAILABLE.
func ParseEventStatus(s string) EventStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ACTIVE", "PUBLISHED", "PUBLIC", "AVAILABLE":
		return EventAvailable
	case "ENDED", "EXPIRED":
		return EventEnded
	case "CANCELLED", "CANCELED":
		return EventCancelled
	case "ARCHIVED":
		return EventArchived
	default:
		return EventAvailable
	}
}

func (s EventStatus) String() string { return string(s) }

type Event struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Location           string          `json:"location"`
	Category           string          `json:"category"` // e.g. concert, seminar, festival
	StartAt            time.Time       `json:"start_at"`
	EndAt              time.Time       `json:"end_at"`
	TicketPrice        decimal.Decimal `json:"ticket_price"`
	Capacity           int             `json:"capacity"`
	Organizer          string          `json:"organizer"` // user id or display identifier
	Description        string          `json:"description"`
	ViewCount          int64           `json:"view_count"`
	TicketsSold        int             `json:"tickets_sold"`
	Status             EventStatus     `json:"status"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
}

// CancelEventResult is returned from a successful event cancellation.
type CancelEventResult struct {
	Success           bool            `json:"success"`
	Message           string          `json:"message"`
	TicketsRefunded   int             `json:"ticketsRefunded"`
	TotalRefundAmount decimal.Decimal `json:"totalRefundAmount"`
}
