package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticketing-system/internal/services"
)

type DashboardHandler struct {
	dashboards *services.DashboardService
}

func NewDashboardHandler(dashboards *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Attendee - GET /api/dashboard/attendee/{id}
func (h *DashboardHandler) Attendee(e *core.RequestEvent) error {
	dash, err := h.dashboards.Attendee(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, dash)
}

// Organizer - GET /api/dashboard/organizer/{id}
func (h *DashboardHandler) Organizer(e *core.RequestEvent) error {
	dash, err := h.dashboards.Organizer(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, dash)
}

// Staff - GET /api/dashboard/staff/event/{id}
func (h *DashboardHandler) Staff(e *core.RequestEvent) error {
	dash, err := h.dashboards.Staff(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, dash)
}
