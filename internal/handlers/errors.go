// Package handlers is the thin HTTP adapter over the services. Handlers
// bind request bodies, call one service operation and translate the error
// taxonomy to HTTP status codes in one place.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"

	"ticketing-system/internal/status"
)

// apiError maps a service error to its wire representation. Unrecognized
// errors are store or infrastructure failures and surface as 500 without
// leaking detail.
func apiError(err error) error {
	switch {
	case errors.Is(err, status.ErrBadRequest):
		return apis.NewBadRequestError(err.Error(), nil)
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError(err.Error(), nil)
	case errors.Is(err, status.ErrOutsideScanWindow):
		return apis.NewForbiddenError(err.Error(), nil)
	case errors.Is(err, status.ErrTicketInvalid),
		errors.Is(err, status.ErrAlreadyCancelled),
		errors.Is(err, status.ErrConflict):
		return apis.NewApiError(http.StatusConflict, err.Error(), nil)
	default:
		slog.Error("request failed", "error", err)
		return apis.NewInternalServerError("Something went wrong.", nil)
	}
}
