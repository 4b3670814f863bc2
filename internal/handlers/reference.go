package handlers

import (
	"net/http"

	apierrors "github.com/Aghostraa/abcr-platform/internal/errors"
	"github.com/Aghostraa/abcr-platform/internal/repository"
	"github.com/gin-gonic/gin"
)

// ReferenceHandler serves the project and category lookup lists used to
// group and filter tasks.
type ReferenceHandler struct {
	refRepo repository.ReferenceRepository
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(refRepo repository.ReferenceRepository) *ReferenceHandler {
	return &ReferenceHandler{refRepo: refRepo}
}

// ListProjects returns all projects.
func (h *ReferenceHandler) ListProjects(c *gin.Context) {
	projects, err := h.refRepo.ListProjects()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// ListCategories returns all categories.
func (h *ReferenceHandler) ListCategories(c *gin.Context) {
	categories, err := h.refRepo.ListCategories()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
