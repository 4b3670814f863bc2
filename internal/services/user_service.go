package services

import (
	"errors"
	"fmt"

	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrInvalidRole   = errors.New("invalid role")
	ErrInvalidUserID = errors.New("invalid user ID")
)

// UserService handles role management. Two redundant paths exist on purpose:
// the stored-procedure call addressed by user ID and the direct profile
// update addressed by email. There is no self-demotion guard and no
// last-admin protection.
type UserService struct {
	userRepo  repository.UserRepository
	roleStore repository.RoleStore
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, roleStore repository.RoleStore) *UserService {
	return &UserService{
		userRepo:  userRepo,
		roleStore: roleStore,
	}
}

// ListUsers returns all user profiles.
func (s *UserService) ListUsers() ([]models.UserProfile, error) {
	profiles, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return profiles, nil
}

// SetUserRole assigns a role through the set_user_role remote procedure.
func (s *UserService) SetUserRole(userID string, role models.Role) error {
	if _, err := uuid.Parse(userID); err != nil {
		return ErrInvalidUserID
	}
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.roleStore.SetUserRole(userID, role); err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}
	return nil
}

// SetRoleByEmail assigns a role by updating the profile row directly.
func (s *UserService) SetRoleByEmail(email string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if err := s.userRepo.UpdateRoleByEmail(email, role); err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}
