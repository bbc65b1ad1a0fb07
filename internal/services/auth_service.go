package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

// AuthService covers signup and login. There are no sessions or tokens:
// login verifies the stored secret and returns the user.
type AuthService struct {
	store store.Store
}

func NewAuthService(st store.Store) *AuthService {
	return &AuthService{store: st}
}

type SignupInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Secret  string `json:"secret"`
	Role    string `json:"role"`
	Contact string `json:"contact"`
}

// Signup registers a new user with a bcrypt-hashed secret. Emails are
// unique; duplicates refuse with a conflict.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if in.Name == "" || email == "" || in.Secret == "" {
		return nil, fmt.Errorf("name, email and secret are required: %w", status.ErrBadRequest)
	}

	exists, err := s.store.Users().EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email %s is taken: %w", email, status.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleAttendee
	}

	user := &models.User{
		Name:    in.Name,
		Email:   email,
		Secret:  string(hash),
		Role:    role,
		Contact: in.Contact,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login looks the user up by email and compares the secret. A missing user
// and a wrong secret are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, secret string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || secret == "" {
		return nil, fmt.Errorf("email and secret are required: %w", status.ErrBadRequest)
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", status.ErrBadRequest)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Secret), []byte(secret)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", status.ErrBadRequest)
	}
	return user, nil
}
