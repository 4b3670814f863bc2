package repository

import (
	"fmt"

	"github.com/Aghostraa/abcr-platform/internal/models"
	"gorm.io/gorm"
)

// StoredProcRoleStore resolves roles through the stored functions the
// external store exposes. The functions are part of the store's contract and
// are not defined by this codebase.
type StoredProcRoleStore struct {
	db *gorm.DB
}

// NewRoleStore creates a RoleStore backed by the store's remote procedures
func NewRoleStore(db *gorm.DB) RoleStore {
	return &StoredProcRoleStore{db: db}
}

// GetUserRole invokes get_user_role(user_email)
func (s *StoredProcRoleStore) GetUserRole(email string) (models.Role, error) {
	var role string
	if err := s.db.Raw("SELECT get_user_role(?)", email).Scan(&role).Error; err != nil {
		return "", fmt.Errorf("get_user_role: %w", err)
	}
	return models.Role(role), nil
}

// SetUserRole invokes set_user_role(user_id, new_role)
func (s *StoredProcRoleStore) SetUserRole(userID string, role models.Role) error {
	if err := s.db.Exec("SELECT set_user_role(?, ?)", userID, string(role)).Error; err != nil {
		return fmt.Errorf("set_user_role: %w", err)
	}
	return nil
}
