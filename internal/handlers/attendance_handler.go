package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketing-system/internal/services"
)

type AttendanceHandler struct {
	attendance *services.AttendanceService
}

func NewAttendanceHandler(attendance *services.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

type scanRequest struct {
	Ticket struct {
		ID string `json:"id"`
	} `json:"ticket"`
	Event struct {
		ID string `json:"id"`
	} `json:"event"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	StartTime string `json:"startTime"`
	Gate      string `json:"gate"`
}

// RecordScan - POST /api/attendance
func (h *AttendanceHandler) RecordScan(e *core.RequestEvent) error {
	var req scanRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	var occurredAt time.Time
	if req.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			return apis.NewBadRequestError("startTime must be an ISO-8601 date-time", err)
		}
		occurredAt = parsed
	}

	logEntry, err := h.attendance.RecordScan(e.Request.Context(), services.ScanInput{
		TicketID:   req.Ticket.ID,
		EventID:    req.Event.ID,
		UserID:     req.User.ID,
		OccurredAt: occurredAt,
		Gate:       req.Gate,
	})
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, logEntry)
}

// ListLogs - GET /api/attendance
func (h *AttendanceHandler) ListLogs(e *core.RequestEvent) error {
	logs, err := h.attendance.ListLogs(e.Request.Context())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, logs)
}

// GetLog - GET /api/attendance/{id}
func (h *AttendanceHandler) GetLog(e *core.RequestEvent) error {
	logEntry, err := h.attendance.GetLog(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, logEntry)
}

// ListByUser - GET /api/attendance/user/{id}
func (h *AttendanceHandler) ListByUser(e *core.RequestEvent) error {
	logs, err := h.attendance.ListByUser(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, logs)
}

// ListByEvent - GET /api/attendance/event/{id}
func (h *AttendanceHandler) ListByEvent(e *core.RequestEvent) error {
	logs, err := h.attendance.ListByEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, logs)
}

// DeleteLog - DELETE /api/attendance/{id}
func (h *AttendanceHandler) DeleteLog(e *core.RequestEvent) error {
	if err := h.attendance.DeleteLog(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}

// RecentScans - GET /api/attendance/event/{id}/recent
func (h *AttendanceHandler) RecentScans(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("id")
	logs, err := h.attendance.RecentByEvent(e.Request.Context(), eventID)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, logs)
}

// Stats - GET /api/attendance/event/{id}/stats
func (h *AttendanceHandler) Stats(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("id")
	stats, err := h.attendance.Stats(e.Request.Context(), eventID)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, stats)
}
