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

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// GetPayment - GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(e *core.RequestEvent) error {
	payment, err := h.payments.GetPayment(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, payment)
}

// GetByReference - GET /api/payments/reference/{ref}
func (h *PaymentHandler) GetByReference(e *core.RequestEvent) error {
	payment, err := h.payments.GetByReference(e.Request.Context(), e.Request.PathValue("ref"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, payment)
}

// ListPayments - GET /api/payments
func (h *PaymentHandler) ListPayments(e *core.RequestEvent) error {
	payments, err := h.payments.ListPayments(e.Request.Context())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, payments)
}

// ListByUser - GET /api/payments/user/{id}
func (h *PaymentHandler) ListByUser(e *core.RequestEvent) error {
	payments, err := h.payments.ListByUser(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, payments)
}

// ListByEvent - GET /api/payments/event/{id}
func (h *PaymentHandler) ListByEvent(e *core.RequestEvent) error {
	payments, err := h.payments.ListByEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, payments)
}

// CreatePayment - POST /api/payments
func (h *PaymentHandler) CreatePayment(e *core.RequestEvent) error {
	var req struct {
		UserID               string  `json:"userId"`
		EventID              string  `json:"eventId"`
		Amount               float64 `json:"amount"`
		PaidAt               string  `json:"paidAt"`
		Method               string  `json:"method"`
		Status               string  `json:"status"`
		TransactionReference string  `json:"transactionReference"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	payment := &models.Payment{
		UserID:               req.UserID,
		EventID:              req.EventID,
		Amount:               decimal.NewFromFloat(req.Amount),
		Method:               req.Method,
		Status:               req.Status,
		TransactionReference: req.TransactionReference,
	}
	if req.PaidAt != "" {
		t, err := time.Parse(time.RFC3339, req.PaidAt)
		if err != nil {
			return apis.NewBadRequestError("paidAt must be an ISO-8601 date-time", err)
		}
		payment.PaidAt = t
	}

	if err := h.payments.CreatePayment(e.Request.Context(), payment); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, payment)
}

// UpdateStatus - PATCH /api/payments/{id}/status
func (h *PaymentHandler) UpdateStatus(e *core.RequestEvent) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	payment, err := h.payments.UpdateStatus(e.Request.Context(), e.Request.PathValue("id"), req.Status)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, payment)
}
