package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"ticketing-system/internal/services"
	"ticketing-system/models"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type eventRequest struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Category    string  `json:"category"`
	StartAt     string  `json:"startAt"`
	EndAt       string  `json:"endAt"`
	TicketPrice float64 `json:"ticketPrice"`
	Capacity    int     `json:"capacity"`
	Organizer   string  `json:"organizer"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

func (r eventRequest) toModel() (*models.Event, error) {
	event := &models.Event{
		Name:        r.Name,
		Location:    r.Location,
		Category:    r.Category,
		TicketPrice: decimal.NewFromFloat(r.TicketPrice),
		Capacity:    r.Capacity,
		Organizer:   r.Organizer,
		Description: r.Description,
	}
	if r.Status != "" {
		event.Status = models.ParseEventStatus(r.Status)
	}
	if r.StartAt != "" {
		t, err := time.Parse(time.RFC3339, r.StartAt)
		if err != nil {
			return nil, err
		}
		event.StartAt = t
	}
	if r.EndAt != "" {
		t, err := time.Parse(time.RFC3339, r.EndAt)
		if err != nil {
			return nil, err
		}
		event.EndAt = t
	}
	return event, nil
}

// ListEvents - GET /api/events
func (h *EventHandler) ListEvents(e *core.RequestEvent) error {
	events, err := h.events.ListEvents(e.Request.Context())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, events)
}

// GetEvent - GET /api/events/{id}
func (h *EventHandler) GetEvent(e *core.RequestEvent) error {
	event, err := h.events.GetEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// CreateEvent - POST /api/events
func (h *EventHandler) CreateEvent(e *core.RequestEvent) error {
	var req eventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	event, err := req.toModel()
	if err != nil {
		return apis.NewBadRequestError("startAt/endAt must be ISO-8601 date-times", err)
	}
	if err := h.events.CreateEvent(e.Request.Context(), event); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, event)
}

// UpdateEvent - PUT /api/events/{id}
func (h *EventHandler) UpdateEvent(e *core.RequestEvent) error {
	var req eventRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	event, err := req.toModel()
	if err != nil {
		return apis.NewBadRequestError("startAt/endAt must be ISO-8601 date-times", err)
	}
	event.ID = e.Request.PathValue("id")
	if err := h.events.UpdateEvent(e.Request.Context(), event); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, event)
}

// CancelEvent - POST /api/events/{id}/cancel
func (h *EventHandler) CancelEvent(e *core.RequestEvent) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	result, err := h.events.CancelEvent(e.Request.Context(), e.Request.PathValue("id"), req.Reason)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, result)
}

// DeleteEvent - DELETE /api/events/{id}
func (h *EventHandler) DeleteEvent(e *core.RequestEvent) error {
	if err := h.events.DeleteEvent(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}

// TrackView - POST /api/events/{id}/view
func (h *EventHandler) TrackView(e *core.RequestEvent) error {
	var req struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	if err := h.events.TrackUniqueView(e.Request.Context(), e.Request.PathValue("id"), req.UserID, req.Role); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}
