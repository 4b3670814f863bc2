package dto

import (
	"time"

	"github.com/Aghostraa/abcr-platform/internal/models"
)

// TaskDTO represents a task in API responses. The field set matches the
// column list the listing endpoint exposes.
type TaskDTO struct {
	ID             uint64            `json:"id"`
	Name           string            `json:"name"`
	Instructions   string            `json:"instructions"`
	Urgency        int               `json:"urgency"`
	Difficulty     int               `json:"difficulty"`
	Priority       int               `json:"priority"`
	Points         int               `json:"points"`
	ProjectID      *uint64           `json:"project_id"`
	CategoryID     *uint64           `json:"category_id"`
	Status         models.TaskStatus `json:"status"`
	ApplicantID    *string           `json:"applicant_id"`
	AssignedUserID *string           `json:"assigned_user_id"`
	CreatedBy      string            `json:"created_by"`
	CreatedAt      time.Time         `json:"created_at"`
	Deadline       *time.Time        `json:"deadline"`
}

// TaskListResponse is the payload of GET /api/tasks.
type TaskListResponse struct {
	Tasks    []TaskDTO `json:"tasks"`
	UserRole string    `json:"userRole"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID,
		Name:           task.Name,
		Instructions:   task.Instructions,
		Urgency:        task.Urgency,
		Difficulty:     task.Difficulty,
		Priority:       task.Priority,
		Points:         task.Points,
		ProjectID:      task.ProjectID,
		CategoryID:     task.CategoryID,
		Status:         task.Status,
		ApplicantID:    task.ApplicantID,
		AssignedUserID: task.AssignedUserID,
		CreatedBy:      task.CreatedBy,
		CreatedAt:      task.CreatedAt,
		Deadline:       task.Deadline,
	}
}

// ToTaskListResponse converts tasks plus the caller's role into the listing
// payload.
func ToTaskListResponse(tasks []models.Task, userRole models.Role) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return TaskListResponse{
		Tasks:    items,
		UserRole: string(userRole),
	}
}
