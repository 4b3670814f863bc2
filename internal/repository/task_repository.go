package repository

import (
	"time"

	"github.com/Aghostraa/abcr-platform/internal/lifecycle"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListAll retrieves every task ordered by creation time
func (r *GormTaskRepository) ListAll() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ApplyTransition performs a lifecycle transition as one conditional UPDATE.
// The WHERE clause restates every precondition, so the read and the write
// cannot race: of two concurrent attempts, only one affects the row. A
// zero-row update means the precondition no longer holds and is reported as
// lifecycle.ErrNotApplicable, never as success.
func (r *GormTaskRepository) ApplyTransition(taskID uint64, tr lifecycle.Transition, actorID string, now time.Time) error {
	query := r.db.Model(&models.Task{}).
		Where("id = ? AND status = ?", taskID, tr.From)

	if tr.GuardNoApplicant {
		query = query.Where("applicant_id IS NULL")
	}
	if tr.GuardApplicantIsActor {
		query = query.Where("applicant_id = ?", actorID)
	}

	result := query.Updates(tr.Changes(actorID, now))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return lifecycle.ErrNotApplicable
	}
	return nil
}

// Override sets status and assignee unconditionally. This is the generic
// patch path that skips the state machine; access control happens upstream.
func (r *GormTaskRepository) Override(taskID uint64, status models.TaskStatus, assignedUserID *string) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]interface{}{
			"status":           status,
			"assigned_user_id": assignedUserID,
		}).Error
}
