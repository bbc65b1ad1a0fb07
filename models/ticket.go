package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TicketActive    = "ACTIVE"
	TicketUsed      = "USED"
	TicketRefunded  = "REFUNDED"
	TicketCancelled = "CANCELLED"
)

type Ticket struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	EventID     string          `json:"event_id"`
	QRCode      string          `json:"qr_code"` // globally unique
	Price       decimal.Decimal `json:"price"`   // frozen at purchase time
	PurchasedAt time.Time       `json:"purchased_at"`
	TicketType  string          `json:"ticket_type"`
	Status      string          `json:"status"`
}

// Refundable reports whether a cancellation should flip this ticket to
// REFUNDED. Already refunded or cancelled tickets are terminal.
func (t Ticket) Refundable() bool {
	switch strings.ToUpper(t.Status) {
	case TicketRefunded, TicketCancelled:
		return false
	default:
		return true
	}
}

// Scannable reports whether the ticket may still be presented at a gate.
func (t Ticket) Scannable() bool {
	return t.Refundable()
}
