package services

import (
	"context"
	"fmt"
	"strings"

	"ticketing-system/internal/status"
	"ticketing-system/internal/store"
	"ticketing-system/models"
)

type RoleService struct {
	store store.Store
}

func NewRoleService(st store.Store) *RoleService {
	return &RoleService{store: st}
}

func (s *RoleService) GetRole(ctx context.Context, id string) (*models.Role, error) {
	return s.store.Roles().GetByID(ctx, id)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	return s.store.Roles().List(ctx)
}

func (s *RoleService) CreateRole(ctx context.Context, role *models.Role) error {
	role.RoleName = strings.ToUpper(strings.TrimSpace(role.RoleName))
	if role.RoleName == "" {
		return fmt.Errorf("role name is required: %w", status.ErrBadRequest)
	}
	return s.store.Roles().Create(ctx, role)
}

func (s *RoleService) UpdateRole(ctx context.Context, role *models.Role) error {
	role.RoleName = strings.ToUpper(strings.TrimSpace(role.RoleName))
	if role.ID == "" || role.RoleName == "" {
		return fmt.Errorf("role id and name are required: %w", status.ErrBadRequest)
	}
	return s.store.Roles().Update(ctx, role)
}

func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	return s.store.Roles().Delete(ctx, id)
}
