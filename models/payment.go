package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment records that money changed hands outside this system. The service
// never talks to a payment provider; it only keeps the row and its reference.
type Payment struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	EventID              string          `json:"event_id"`
	Amount               decimal.Decimal `json:"amount"`
	PaidAt               time.Time       `json:"paid_at"`
	Method               string          `json:"method"` // qr_code, credit_card, bank_transfer
	Status               string          `json:"status"` // PENDING, COMPLETED, FAILED
	TransactionReference string          `json:"transaction_reference"` // unique
}
