package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aghostraa/abcr-platform/internal/lifecycle"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/repository"
)

var (
	ErrNameRequired  = errors.New("task name is required")
	ErrInvalidScale  = errors.New("urgency, priority and difficulty must be between 1 and 3")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskService handles task business logic. All lifecycle movement funnels
// through PerformTransition; Override is the explicit out-of-band patch.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name         string
	Instructions string
	ProjectID    *uint64
	CategoryID   *uint64
	Urgency      int
	Priority     int
	Difficulty   int
	Deadline     *time.Time
	CreatedBy    string
}

// ListTasks returns every task.
func (s *TaskService) ListTasks() ([]models.Task, error) {
	tasks, err := s.taskRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask validates the input, derives the frozen point value and stores
// the task in the pending state.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if !models.ValidScale(input.Urgency) || !models.ValidScale(input.Priority) || !models.ValidScale(input.Difficulty) {
		return nil, ErrInvalidScale
	}

	task := &models.Task{
		Name:         input.Name,
		Instructions: input.Instructions,
		Urgency:      input.Urgency,
		Priority:     input.Priority,
		Difficulty:   input.Difficulty,
		Points:       models.PointsFor(input.Urgency, input.Priority, input.Difficulty),
		ProjectID:    input.ProjectID,
		CategoryID:   input.CategoryID,
		Status:       models.TaskStatusPending,
		Deadline:     input.Deadline,
		CreatedBy:    input.CreatedBy,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// PerformTransition applies a lifecycle transition on behalf of an actor.
// Role checks happen here; the state precondition is enforced by the guarded
// update in the repository. Errors: lifecycle.ErrRoleForbidden,
// lifecycle.ErrNotApplicable, or a store failure.
func (s *TaskService) PerformTransition(tr lifecycle.Transition, taskID uint64, actorID string, role models.Role) error {
	if !tr.Allows(role) {
		return lifecycle.ErrRoleForbidden
	}
	return s.taskRepo.ApplyTransition(taskID, tr, actorID, time.Now())
}

// Override rewrites status and assignee directly. It deliberately bypasses
// the lifecycle table; callers gate it to Manager/Admin.
func (s *TaskService) Override(taskID uint64, status models.TaskStatus, assignedUserID *string) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.taskRepo.Override(taskID, status, assignedUserID); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}
