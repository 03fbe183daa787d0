package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/dto"
	apierrors "projectdesk/internal/errors"
	"projectdesk/internal/middleware"
	"projectdesk/internal/services"
	"projectdesk/internal/utils"
)

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	accessService  *services.AccessService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, accessService *services.AccessService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		accessService:  accessService,
	}
}

// ProjectRequest is the write payload for projects.
type ProjectRequest struct {
	Name string    `json:"name" binding:"required,min=5,max=100"`
	From time.Time `json:"from" binding:"required"`
	To   time.Time `json:"to" binding:"required,gtfield=From"`
}

// ListProjects returns the projects visible to the acting identity.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	projects, total, err := h.accessService.ListVisibleProjects(identity, params)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to fetch projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectDTOs(projects),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetProject returns one project with its live tasks. A project the caller
// may not see answers 404, exactly like one that does not exist.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	allowed, err := h.accessService.CanAccess(identity, services.OpRead, services.KindProject, id)
	if err != nil {
		apierrors.ServiceUnavailable(c, "")
		return
	}
	if !allowed {
		apierrors.NotFound(c, "Project not found")
		return
	}

	project, err := h.projectService.GetProject(id)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.ServiceUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project. Admin only, enforced by middleware.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.CreateProject(services.ProjectInput{
		Name: req.Name,
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject replaces a project's writable fields. Admin only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type UpdateProjectRequest struct {
		ProjectRequest
		Version uint64 `json:"version" binding:"required"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	project, err := h.projectService.UpdateProject(id, req.Version, services.ProjectInput{
		Name: req.Name,
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject soft-deletes a project and cascades to its tasks. Admin only.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.projectService.SoftDelete(id); err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted",
	})
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrInvalidDateRange):
		apierrors.BadRequestWithDetails(c, "Validation failed", err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.ServiceUnavailable(c, "")
	}
}

func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
