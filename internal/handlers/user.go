package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Aghostraa/abcr-platform/internal/dto"
	apierrors "github.com/Aghostraa/abcr-platform/internal/errors"
	"github.com/Aghostraa/abcr-platform/internal/models"
	"github.com/Aghostraa/abcr-platform/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the admin-only role management surface.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers returns all user profiles.
func (h *UserHandler) ListUsers(c *gin.Context) {
	profiles, err := h.userService.ListUsers()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": dto.ToUserProfileDTOs(profiles),
	})
}

// SetRole assigns a role through the set_user_role remote procedure.
func (h *UserHandler) SetRole(c *gin.Context) {
	type SetRoleRequest struct {
		UserID  string `json:"userId" binding:"required"`
		NewRole string `json:"newRole" binding:"required"`
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.SetUserRole(req.UserID, models.Role(req.NewRole)); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUserID):
			apierrors.BadRequest(c, "Invalid user ID")
		case errors.Is(err, services.ErrInvalidRole):
			apierrors.BadRequest(c, "Invalid role")
		default:
			apierrors.InternalError(c, "Failed to update user role")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User role updated successfully"})
}

// SetRoleByEmail assigns a role by updating the profile row directly. This
// path is redundant with SetRole and kept deliberately.
func (h *UserHandler) SetRoleByEmail(c *gin.Context) {
	type SetRoleByEmailRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required"`
	}

	var req SetRoleByEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.userService.SetRoleByEmail(req.Email, models.Role(req.Role)); err != nil {
		if errors.Is(err, services.ErrInvalidRole) {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		apierrors.InternalError(c, "Failed to update user role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("User role set to %s successfully", req.Role),
	})
}
