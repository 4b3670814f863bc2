package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Aghostraa/abcr-platform/internal/auth"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/repository"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound      = errors.New("user profile not found")
	ErrFailedToCreateUser   = errors.New("failed to create user profile")
	ErrFailedToMirrorRole   = errors.New("failed to mirror role into identity metadata")
	ErrFailedToTouchLogin   = errors.New("failed to update last login")
	ErrFailedToResolveRole  = errors.New("failed to resolve user role")
	ErrIdentityUnavailable  = errors.New("failed to fetch identity from provider")
)

// AuthService handles profile provisioning on login.
type AuthService struct {
	provider  auth.Provider
	userRepo  repository.UserRepository
	roleStore repository.RoleStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider auth.Provider, userRepo repository.UserRepository, roleStore repository.RoleStore) *AuthService {
	return &AuthService{
		provider:  provider,
		userRepo:  userRepo,
		roleStore: roleStore,
	}
}

// Provision resolves the identity behind the token and ensures a profile row
// exists for it. First login creates the profile with the Visitor role and
// mirrors that role into the provider-side metadata; any later login updates
// only last_login. The steps are sequential remote calls with no transaction
// across them: a failure after the insert leaves the profile in place.
func (s *AuthService) Provision(ctx context.Context, token *oauth2.Token) (*models.UserProfile, error) {
	identity, err := s.provider.FetchIdentity(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}

	profile, err := s.userRepo.FindByID(identity.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now()
		profile = &models.UserProfile{
			ID:        identity.ID,
			Email:     identity.Email,
			Role:      models.RoleVisitor,
			UpdatedAt: now,
			LastLogin: now,
		}
		if err := s.userRepo.Create(profile); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
		}
		if err := s.provider.UpdateUserMetadata(ctx, token, map[string]string{
			"role": string(models.RoleVisitor),
		}); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToMirrorRole, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	default:
		if err := s.userRepo.UpdateLastLogin(identity.ID, time.Now()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToTouchLogin, err)
		}
	}

	// The role lookup stays part of the login sequence even though nothing
	// consumes the value yet; the remote call is observable behavior.
	role, err := s.roleStore.GetUserRole(identity.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToResolveRole, err)
	}
	log.Printf("auth callback: resolved role %q for %s", role, identity.Email)

	return profile, nil
}

// GetProfile retrieves a profile by ID.
func (s *AuthService) GetProfile(id string) (*models.UserProfile, error) {
	profile, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return profile, nil
}
