package services

import (
	"context"
	"fmt"
	"strings"

	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

type UserService struct {
	store store.Store
}

func NewUserService(st store.Store) *UserService {
	return &UserService{store: st}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", status.ErrBadRequest)
	}
	return s.store.Users().GetByEmail(ctx, email)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserService) UpdateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return fmt.Errorf("user id is required: %w", status.ErrBadRequest)
	}
	current, err := s.store.Users().GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	// The secret only changes through signup; keep the stored hash.
	user.Secret = current.Secret
	if user.Email != "" && user.Email != current.Email {
		exists, err := s.store.Users().EmailExists(ctx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("email %s is taken: %w", user.Email, status.ErrConflict)
		}
	}
	return s.store.Users().Update(ctx, user)
}

func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.store.Users().Delete(ctx, id)
}
