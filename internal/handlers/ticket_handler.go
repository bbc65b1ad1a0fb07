package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketing-system/internal/services"
	"ticketing-system/models"
)

type TicketHandler struct {
	tickets *services.TicketService
}

func NewTicketHandler(tickets *services.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// BookTickets - POST /api/tickets/book
func (h *TicketHandler) BookTickets(e *core.RequestEvent) error {
	var req struct {
		UserID     string `json:"userId"`
		EventID    string `json:"eventId"`
		Quantity   int    `json:"quantity"`
		TicketType string `json:"ticketType"`
		Method     string `json:"method"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	result, err := h.tickets.BookTickets(e.Request.Context(), services.BookingInput{
		UserID:     req.UserID,
		EventID:    req.EventID,
		Quantity:   req.Quantity,
		TicketType: req.TicketType,
		Method:     req.Method,
	})
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, result)
}

// GetTicket - GET /api/tickets/{id}
func (h *TicketHandler) GetTicket(e *core.RequestEvent) error {
	ticket, err := h.tickets.GetTicket(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, ticket)
}

// GetByQRCode - GET /api/tickets/qr/{code}
func (h *TicketHandler) GetByQRCode(e *core.RequestEvent) error {
	ticket, err := h.tickets.GetTicketByQRCode(e.Request.Context(), e.Request.PathValue("code"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, ticket)
}

// ListTickets - GET /api/tickets
func (h *TicketHandler) ListTickets(e *core.RequestEvent) error {
	tickets, err := h.tickets.ListTickets(e.Request.Context())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, tickets)
}

// ListByUser - GET /api/tickets/user/{id}
func (h *TicketHandler) ListByUser(e *core.RequestEvent) error {
	tickets, err := h.tickets.ListByUser(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, tickets)
}

// ListByEvent - GET /api/tickets/event/{id}
func (h *TicketHandler) ListByEvent(e *core.RequestEvent) error {
	tickets, err := h.tickets.ListByEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, tickets)
}

// UpdateTicket - PUT /api/tickets/{id}
func (h *TicketHandler) UpdateTicket(e *core.RequestEvent) error {
	var req struct {
		TicketType string `json:"ticketType"`
		Status     string `json:"status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	ticket := &models.Ticket{
		ID:         e.Request.PathValue("id"),
		TicketType: req.TicketType,
		Status:     req.Status,
	}
	if err := h.tickets.UpdateTicket(e.Request.Context(), ticket); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, ticket)
}

// DeleteTicket - DELETE /api/tickets/{id}
func (h *TicketHandler) DeleteTicket(e *core.RequestEvent) error {
	if err := h.tickets.DeleteTicket(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}

// RefundTicket - POST /api/tickets/{id}/refund
func (h *TicketHandler) RefundTicket(e *core.RequestEvent) error {
	ticket, err := h.tickets.RefundTicket(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, ticket)
}
