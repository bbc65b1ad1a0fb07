package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketing-system/internal/services"
	"ticketing-system/models"
)

type RoleHandler struct {
	roles *services.RoleService
}

func NewRoleHandler(roles *services.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

// ListRoles - GET /api/roles
func (h *RoleHandler) ListRoles(e *core.RequestEvent) error {
	roles, err := h.roles.ListRoles(e.Request.Context())
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, roles)
}

// GetRole - GET /api/roles/{id}
func (h *RoleHandler) GetRole(e *core.RequestEvent) error {
	role, err := h.roles.GetRole(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, role)
}

// CreateRole - POST /api/roles
func (h *RoleHandler) CreateRole(e *core.RequestEvent) error {
	var req struct {
		RoleName string `json:"roleName"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	role := &models.Role{RoleName: req.RoleName}
	if err := h.roles.CreateRole(e.Request.Context(), role); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, role)
}

// UpdateRole - PUT /api/roles/{id}
func (h *RoleHandler) UpdateRole(e *core.RequestEvent) error {
	var req struct {
		RoleName string `json:"roleName"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	role := &models.Role{ID: e.Request.PathValue("id"), RoleName: req.RoleName}
	if err := h.roles.UpdateRole(e.Request.Context(), role); err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, role)
}

// DeleteRole - DELETE /api/roles/{id}
func (h *RoleHandler) DeleteRole(e *core.RequestEvent) error {
	if err := h.roles.DeleteRole(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return apiError(err)
	}
	return e.NoContent(http.StatusNoContent)
}
