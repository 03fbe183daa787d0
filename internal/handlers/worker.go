package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"projectdesk/internal/dto"
	apierrors "projectdesk/internal/errors"
	"projectdesk/internal/middleware"
	"projectdesk/internal/models"
	"projectdesk/internal/services"
	"projectdesk/internal/utils"
)

// WorkerHandler coordinates worker HTTP handlers. The whole route group is
// admin-gated by middleware; no ownership path exists for worker records.
type WorkerHandler struct {
	workerService *services.WorkerService
}

// NewWorkerHandler creates a new WorkerHandler.
func NewWorkerHandler(workerService *services.WorkerService) *WorkerHandler {
	return &WorkerHandler{
		workerService: workerService,
	}
}

// WorkerRequest is the write payload for workers.
type WorkerRequest struct {
	FirstName     string               `json:"first_name" binding:"required,min=3,max=20"`
	LastName      string               `json:"last_name" binding:"required,min=3,max=20"`
	Email         string               `json:"email" binding:"required,email"`
	BirthDate     time.Time            `json:"birth_date" binding:"required"`
	Position      string               `json:"position" binding:"required,min=3,max=20"`
	HireDate      time.Time            `json:"hire_date" binding:"required,gtfield=BirthDate"`
	FireDate      *time.Time           `json:"fire_date"`
	Status        models.WorkerStatus  `json:"status" binding:"required,oneof=active on_leave fired"`
	EducationType models.EducationType `json:"education_type" binding:"required,oneof=secondary bachelor master doctorate"`
	Role          models.Role          `json:"role" binding:"required,oneof=admin worker"`
}

func (r WorkerRequest) toInput() services.WorkerInput {
	return services.WorkerInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		BirthDate:     r.BirthDate,
		Position:      r.Position,
		HireDate:      r.HireDate,
		FireDate:      r.FireDate,
		Status:        r.Status,
		EducationType: r.EducationType,
		Role:          r.Role,
	}
}

// ListWorkers returns all non-deleted workers.
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	workers, total, err := h.workerService.ListWorkers(params)
	if err != nil {
		apierrors.ServiceUnavailable(c, "Failed to fetch workers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workers": dto.ToWorkerDTOs(workers),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetWorker returns one worker, deleted or not.
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	worker, err := h.workerService.GetWorker(id)
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkerDTO(*worker))
}

// CreateWorker provisions a worker together with its login account.
func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	type CreateWorkerRequest struct {
		WorkerRequest
		Password        string `json:"password" binding:"required,min=6,max=100"`
		ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	}

	var req CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	worker, err := h.workerService.CreateWorker(services.CreateWorkerInput{
		WorkerInput: req.WorkerRequest.toInput(),
		Password:    req.Password,
	})
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToWorkerDTO(*worker))
}

// UpdateWorker replaces a worker's writable fields and syncs the account.
func (h *WorkerHandler) UpdateWorker(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	type UpdateWorkerRequest struct {
		WorkerRequest
		Version uint64 `json:"version" binding:"required"`
	}

	var req UpdateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	worker, err := h.workerService.UpdateWorker(id, req.Version, req.WorkerRequest.toInput())
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkerDTO(*worker))
}

// DeleteWorker deactivates a worker: sessions are invalidated, the worker and
// every task assigned to their email are soft-deleted. An admin deleting
// their own record loses the acting session immediately.
func (h *WorkerHandler) DeleteWorker(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	worker, err := h.workerService.SoftDelete(id)
	if err != nil {
		respondWorkerError(c, err)
		return
	}

	if identity, ok := middleware.GetIdentity(c); ok && identity.Username == worker.Email {
		session := sessions.Default(c)
		session.Clear()
		_ = session.Save()
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Worker deleted",
	})
}

func respondWorkerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrWorkerNotFound):
		apierrors.NotFound(c, "Worker not found")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequestWithDetails(c, "Validation failed", gin.H{"email": err.Error()})
	case errors.Is(err, services.ErrInvalidHireDate):
		apierrors.BadRequestWithDetails(c, "Validation failed", err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	default:
		apierrors.ServiceUnavailable(c, "")
	}
}
