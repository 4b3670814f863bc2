package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/Aghostraa/abcr-platform/internal/dto"
	apierrors "github.com/Aghostraa/abcr-platform/internal/errors"
	"github.com/Aghostraa/abcr-platform/internal/lifecycle"
	"github.com/Aghostraa/abcr-platform/internal/middleware"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/services"
	"github.com/gin-gonic/gin"
)

// TaskHandler serves the task collection and the lifecycle action endpoint.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns every task together with the caller's role.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	role, _ := middleware.GetUserRole(c)

	tasks, err := h.taskService.ListTasks()
	if err != nil {
		apierrors.InternalError(c, "An error occurred while fetching tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, role))
}

// CreateTask creates a task; the server derives the frozen point value.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Name         string     `json:"name" binding:"required"`
		Instructions string     `json:"instructions" binding:"required"`
		ProjectID    *uint64    `json:"projectId"`
		CategoryID   *uint64    `json:"categoryId"`
		Urgency      int        `json:"urgency" binding:"required"`
		Priority     int        `json:"priority" binding:"required"`
		Difficulty   int        `json:"difficulty" binding:"required"`
		Deadline     *time.Time `json:"deadline"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Name:         req.Name,
		Instructions: req.Instructions,
		ProjectID:    req.ProjectID,
		CategoryID:   req.CategoryID,
		Urgency:      req.Urgency,
		Priority:     req.Priority,
		Difficulty:   req.Difficulty,
		Deadline:     req.Deadline,
		CreatedBy:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNameRequired), errors.Is(err, services.ErrInvalidScale):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "An error occurred while creating the task")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// PerformAction executes a lifecycle transition named by the action query
// parameter. Unknown actions are 400; role or state guard failures are 403
// and never mutate the row; store failures are 500.
func (h *TaskHandler) PerformAction(c *gin.Context) {
	tr, err := lifecycle.ForAction(lifecycle.Action(c.Query("action")))
	if err != nil {
		apierrors.BadRequest(c, "Invalid action")
		return
	}

	type ActionRequest struct {
		TaskID uint64 `json:"taskId"`
	}

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TaskID == 0 {
		apierrors.BadRequest(c, "Task ID is required")
		return
	}

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := h.taskService.PerformTransition(tr, req.TaskID, userID, role); err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrRoleForbidden), errors.Is(err, lifecycle.ErrNotApplicable):
			apierrors.Forbidden(c, "")
		default:
			apierrors.InternalError(c, tr.FailureMessage)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": tr.SuccessMessage})
}

// OverrideTask is the generic patch path: it rewrites status and assignee
// without consulting the lifecycle table. Routing restricts it to
// Manager/Admin.
func (h *TaskHandler) OverrideTask(c *gin.Context) {
	type OverrideRequest struct {
		ID                uint64  `json:"id"`
		NewStatus         string  `json:"newStatus"`
		NewAssignedUserID *string `json:"newAssignedUserId"`
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == 0 {
		apierrors.BadRequest(c, "Task ID is required")
		return
	}

	if err := h.taskService.Override(req.ID, models.TaskStatus(req.NewStatus), req.NewAssignedUserID); err != nil {
		if errors.Is(err, services.ErrInvalidStatus) {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		apierrors.InternalError(c, "An error occurred while updating the task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}
