package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"projectdesk/internal/dto"
	apierrors "projectdesk/internal/errors"
	"projectdesk/internal/middleware"
	"projectdesk/internal/models"
	"projectdesk/internal/services"
	"projectdesk/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService   *services.TaskService
	accessService *services.AccessService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, accessService *services.AccessService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		accessService: accessService,
	}
}

// TaskRequest is the write payload for tasks.
type TaskRequest struct {
	Name     string           `json:"name" binding:"required,min=5,max=100"`
	From     time.Time        `json:"from" binding:"required"`
	To       time.Time        `json:"to" binding:"required,gtfield=From"`
	State    models.TaskState `json:"state" binding:"omitempty,oneof=planned in_progress done"`
	Assignee string           `json:"assignee" binding:"omitempty,email"`
}

// ListTasks returns the tasks visible to the acting identity: all live tasks
// for admins, only the caller's own for workers.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.accessService.ListVisibleTasks(identity, params)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": dto.ToTaskDTOs(tasks),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns one task. Denied access and absence both answer 404.
func (h *TaskHandler) GetTask(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	allowed, err := h.accessService.CanAccess(identity, services.OpRead, services.KindTask, id)
	if err != nil {
		apierrors.ServiceUnavailable(c, "")
		return
	}
	if !allowed {
		apierrors.NotFound(c, "Task not found")
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found")
			return
		}
		apierrors.ServiceUnavailable(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task under a live project. Admin only.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		TaskRequest
		ProjectID uint64 `json:"project_id" binding:"required"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		TaskInput: services.TaskInput{
			Name:     req.Name,
			From:     req.From,
			To:       req.To,
			State:    req.State,
			Assignee: req.Assignee,
		},
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces a task's writable fields. Admin only.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		TaskRequest
		Version uint64 `json:"version" binding:"required"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.UpdateTask(id, req.Version, services.TaskInput{
		Name:     req.Name,
		From:     req.From,
		To:       req.To,
		State:    req.State,
		Assignee: req.Assignee,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask soft-deletes a single task. Admin only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.taskService.SoftDelete(id); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted",
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrProjectDeleted),
		errors.Is(err, services.ErrUnknownAssignee):
		apierrors.BadRequestWithDetails(c, "Validation failed", err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.ServiceUnavailable(c, "")
	}
}
