package repository

import (
	"time"

	"github.com/Aghostraa/abcr-platform/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user profile
func (r *GormUserRepository) Create(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

// FindByID finds a profile by its provider subject ID
func (r *GormUserRepository) FindByID(id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// List retrieves all profiles
func (r *GormUserRepository) List() ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	if err := r.db.Order("email").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateLastLogin touches only the last_login column. UpdateColumn skips the
// UpdatedAt hook: a repeat login must not change anything else on the row.
func (r *GormUserRepository) UpdateLastLogin(id string, at time.Time) error {
	return r.db.Model(&models.UserProfile{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

// UpdateRoleByEmail updates a profile's role addressed by email. A missing
// email is not an error; the update simply affects no rows.
func (r *GormUserRepository) UpdateRoleByEmail(email string, role models.Role) error {
	return r.db.Model(&models.UserProfile{}).
		Where("email = ?", email).
		Update("role", role).Error
}
