// Package status defines the error taxonomy shared by services and handlers.
// Services wrap these sentinels with context; handlers translate them to
// HTTP responses with errors.Is.
package status

import "errors"

var (
	// ErrBadRequest covers malformed or internally inconsistent input,
	// e.g. a missing required reference or an event/user mismatch on a ticket.
	ErrBadRequest = errors.New("bad request")

	// ErrNotFound means a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrOutsideScanWindow rejects a scan outside
	// [event.startAt - before, event.endAt + after].
	ErrOutsideScanWindow = errors.New("outside scan window")

	// ErrTicketInvalid rejects a scan of a refunded or cancelled ticket.
	ErrTicketInvalid = errors.New("ticket invalid")

	// ErrAlreadyCancelled rejects cancelling an already cancelled event.
	ErrAlreadyCancelled = errors.New("event already cancelled")

	// ErrConflict rejects an operation the current state forbids,
	// e.g. deleting an event that still has tickets.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyCounted signals a unique-view insert hit the
	// (event, user) uniqueness constraint. Callers swallow it.
	ErrAlreadyCounted = errors.New("view already counted")
)
