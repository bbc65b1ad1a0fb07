package models

import "time"

const (
	ScanValid       = "valid"
	ScanInvalid     = "invalid"
	ScanDuplicate   = "duplicate"
	ScanOutOfWindow = "out_of_window"
)

// AttendanceLog is one recorded presentation of a ticket at a venue gate.
// Invariants: the ticket belongs to EventID and UserID, and OccurredAt falls
// inside the event's scan window for any log with status "valid".
type AttendanceLog struct {
	ID           string    `json:"id"`
	TicketID     string    `json:"ticket_id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	Status       string    `json:"status"`
	ReEntryCount int       `json:"re_entry_count"`
	Gate         string    `json:"gate,omitempty"`
}

// EventView marks that a distinct attendee has been counted for an event.
// The (EventID, UserID) pair is unique.
type EventView struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// AttendanceStats backs the /api/attendance/event/{id}/stats surface.
type AttendanceStats struct {
	CheckInCount int64 `json:"checkInCount"`
	TotalLogs    int64 `json:"totalLogs"`
}
