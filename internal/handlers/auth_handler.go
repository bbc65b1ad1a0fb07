package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticketing-system/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup - POST /api/auth/signup
func (h *AuthHandler) Signup(e *core.RequestEvent) error {
	var req services.SignupInput
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	user, err := h.auth.Signup(e.Request.Context(), req)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusCreated, user)
}

// Login - POST /api/auth/login
func (h *AuthHandler) Login(e *core.RequestEvent) error {
	var req struct {
		Email  string `json:"email"`
		Secret string `json:"secret"`
	}
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	user, err := h.auth.Login(e.Request.Context(), req.Email, req.Secret)
	if err != nil {
		return apiError(err)
	}
	return e.JSON(http.StatusOK, user)
}
