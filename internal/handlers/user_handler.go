package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketing-system/internal/services"
	"ticketing-system/models"
)

type UserHandler struct {
	users         *services.UserService
	notifications *services.NotificationService
}

func NewUserHandler(users *services.UserService, notifications *services.NotificationService) *UserHandler {
	return &UserHandler{users: users, notifications: notifications}
}

// ListUsers - GET /api/users
func (h *UserHandler) ListUsers(e *core.RequestEvent) error {
	users, err := h.users.ListUsers(e.Request.Context())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, users)
}

// GetUser - GET /api/users/{id}
func (h *UserHandler) GetUser(e *core.RequestEvent) error {
	user, err := h.users.GetUser(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}

// GetByEmail - GET /api/users/email/{email}
func (h *UserHandler) GetByEmail(e *core.RequestEvent) error {
	user, err := h.users.GetByEmail(e.Request.Context(), e.Request.PathValue("email"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}

// UpdateUser - PUT /api/users/{id}
func (h *UserHandler) UpdateUser(e *core.RequestEvent) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Role    string `json:"role"`
		Contact string `json:"contact"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	user := &models.User{
		ID:      e.Request.PathValue("id"),
		Name:    req.Name,
		Email:   req.Email,
		Role:    req.Role,
		Contact: req.Contact,
	}
	if err := h.users.UpdateUser(e.Request.Context(), user); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}

// DeleteUser - DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(e *core.RequestEvent) error {
	if err := h.users.DeleteUser(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}

// ListNotifications - GET /api/users/{id}/notifications
func (h *UserHandler) ListNotifications(e *core.RequestEvent) error {
	notifications, err := h.notifications.ListForUser(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, notifications)
}
