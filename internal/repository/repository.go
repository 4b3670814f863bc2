package repository

import (
	"time"

	"github.com/Aghostraa/abcr-platform/internal/lifecycle"
	"github.com/Aghostraa/abcr-platform/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// ListAll retrieves every task; the listing contract has no pagination
	// and no server-side filtering beyond authentication
	ListAll() ([]models.Task, error)

	// ApplyTransition performs a lifecycle transition as a single guarded
	// update; a zero-row result surfaces as lifecycle.ErrNotApplicable
	ApplyTransition(taskID uint64, tr lifecycle.Transition, actorID string, now time.Time) error

	// Override sets status and assignee directly, bypassing the lifecycle
	Override(taskID uint64, status models.TaskStatus, assignedUserID *string) error
}

// UserRepository defines the interface for user profile data access
type UserRepository interface {
	// Create creates a new user profile
	Create(profile *models.UserProfile) error

	// FindByID finds a profile by its provider subject ID
	FindByID(id string) (*models.UserProfile, error)

	// List retrieves all profiles
	List() ([]models.UserProfile, error)

	// UpdateLastLogin updates only the last_login column
	UpdateLastLogin(id string, at time.Time) error

	// UpdateRoleByEmail updates a profile's role addressed by email
	UpdateRoleByEmail(email string, role models.Role) error
}

// RoleStore wraps the remote procedures the external store exposes for role
// resolution. Role is the sole authorization axis in the system.
type RoleStore interface {
	// GetUserRole invokes get_user_role(user_email)
	GetUserRole(email string) (models.Role, error)

	// SetUserRole invokes set_user_role(user_id, new_role)
	SetUserRole(userID string, role models.Role) error
}

// ReferenceRepository serves the project and category lookup tables.
type ReferenceRepository interface {
	ListProjects() ([]models.Project, error)
	ListCategories() ([]models.Category, error)
}
