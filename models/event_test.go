package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEventStatus(t *testing.T) {
	tests := []struct {
		stored string
		want   EventStatus
	}{
		{"AVAILABLE", EventAvailable},
		{"ACTIVE", EventAvailable},
		{"PUBLISHED", EventAvailable},
		{"PUBLIC", EventAvailable},
		{"ENDED", EventEnded},
		{"EXPIRED", EventEnded},
		{"CANCELLED", EventCancelled},
		{"CANCELED", EventCancelled},
		{"ARCHIVED", EventArchived},
		{"archived", EventArchived},
		{" available ", EventAvailable},
		{"cancelled", EventCancelled},
		{"", EventAvailable},
		{"SOMETHING_ELSE", EventAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.stored, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseEventStatus(tt.stored))
		})
	}
}

func TestTicket_Refundable(t *testing.T) {
	assert.True(t, Ticket{Status: TicketActive}.Refundable())
	assert.True(t, Ticket{Status: TicketUsed}.Refundable())
	assert.False(t, Ticket{Status: TicketRefunded}.Refundable())
	assert.False(t, Ticket{Status: TicketCancelled}.Refundable())

	// Case-insensitive compare on stored values.
	assert.False(t, Ticket{Status: "refunded"}.Refundable())
	assert.False(t, Ticket{Status: "Cancelled"}.Refundable())
}
