package repository

import (
	"github.com/Aghostraa/abcr-platform/internal/models"
	"gorm.io/gorm"
)

// GormReferenceRepository serves the project and category lookup tables.
type GormReferenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new ReferenceRepository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &GormReferenceRepository{db: db}
}

func (r *GormReferenceRepository) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("name").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormReferenceRepository) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
