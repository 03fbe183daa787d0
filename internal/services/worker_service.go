package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"projectdesk/internal/models"
	"projectdesk/internal/repository"
	"projectdesk/internal/utils"
)

var (
	ErrWorkerNotFound       = errors.New("worker not found")
	ErrEmailTaken           = errors.New("email is already taken")
	ErrInvalidHireDate      = errors.New("hire date must be greater than birth date")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// WorkerService handles worker provisioning, the mirror between worker
// records and login accounts, and the worker soft-delete cascade.
type WorkerService struct {
	workerRepo  repository.WorkerRepository
	accountRepo repository.AccountRepository
}

// NewWorkerService creates a new WorkerService
func NewWorkerService(workerRepo repository.WorkerRepository, accountRepo repository.AccountRepository) *WorkerService {
	return &WorkerService{
		workerRepo:  workerRepo,
		accountRepo: accountRepo,
	}
}

// WorkerInput carries the writable worker fields.
type WorkerInput struct {
	FirstName     string
	LastName      string
	Email         string
	BirthDate     time.Time
	Position      string
	HireDate      time.Time
	FireDate      *time.Time
	Status        models.WorkerStatus
	EducationType models.EducationType
	Role          models.Role
}

// CreateWorkerInput adds the initial password to the writable fields.
type CreateWorkerInput struct {
	WorkerInput
	Password string
}

// CreateWorker provisions the login account (username = email) and the
// worker record in one transaction. Duplicate emails are rejected before the
// transaction so the caller gets a field-level error instead of a raw
// constraint violation.
func (s *WorkerService) CreateWorker(input CreateWorkerInput) (*models.Worker, error) {
	if !input.HireDate.After(input.BirthDate) {
		return nil, ErrInvalidHireDate
	}

	if _, err := s.accountRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	account := &models.Account{
		Email:         input.Email,
		PasswordHash:  string(hash),
		SecurityStamp: uuid.NewString(),
		Role:          input.Role,
	}

	worker := &models.Worker{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		BirthDate:     input.BirthDate,
		Position:      input.Position,
		HireDate:      input.HireDate,
		FireDate:      input.FireDate,
		Status:        input.Status,
		EducationType: input.EducationType,
		Role:          input.Role,
	}

	if err := s.workerRepo.CreateWithAccount(worker, account); err != nil {
		return nil, fmt.Errorf("failed to provision worker: %w", err)
	}

	return worker, nil
}

// ListWorkers returns all non-deleted workers. Worker listing has no
// ownership path, so there is no per-identity narrowing to do here; the
// admin gate sits in front of the route.
func (s *WorkerService) ListWorkers(params utils.PaginationParams) ([]models.Worker, int64, error) {
	workers, total, err := s.workerRepo.ListLive(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, total, nil
}

// GetWorker returns a worker by id, deleted or not.
func (s *WorkerService) GetWorker(id uint64) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}
	return worker, nil
}

// UpdateWorker replaces the writable fields and keeps the login account in
// sync: email follows the worker's email, the role follows the worker's role.
func (s *WorkerService) UpdateWorker(id uint64, version uint64, input WorkerInput) (*models.Worker, error) {
	if !input.HireDate.After(input.BirthDate) {
		return nil, ErrInvalidHireDate
	}

	worker, err := s.workerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	if input.Email != worker.Email {
		if other, err := s.accountRepo.FindByEmail(input.Email); err == nil && other.ID != worker.AccountID {
			return nil, ErrEmailTaken
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if err := s.accountRepo.UpdateEmail(worker.AccountID, input.Email); err != nil {
			return nil, fmt.Errorf("failed to sync account email: %w", err)
		}
	}

	if input.Role != worker.Role {
		if err := s.accountRepo.SetRole(worker.AccountID, input.Role); err != nil {
			return nil, fmt.Errorf("failed to sync account role: %w", err)
		}
	}

	worker.FirstName = input.FirstName
	worker.LastName = input.LastName
	worker.Email = input.Email
	worker.BirthDate = input.BirthDate
	worker.Position = input.Position
	worker.HireDate = input.HireDate
	worker.FireDate = input.FireDate
	worker.Status = input.Status
	worker.EducationType = input.EducationType
	worker.Role = input.Role
	worker.Version = version

	if err := s.workerRepo.Update(worker); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrWorkerNotFound
		case errors.Is(err, repository.ErrStaleRecord):
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	return worker, nil
}

// SoftDelete deactivates a worker. The login account is disabled and its
// security stamp rotated first — session invalidation must happen whether or
// not the cascade lands — then the worker and every not-yet-deleted task
// assigned to the worker's email are marked deleted atomically. The deleted
// worker is returned so the handler can terminate the acting session when an
// admin deletes their own record.
func (s *WorkerService) SoftDelete(id uint64) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}

	if err := s.accountRepo.Disable(worker.AccountID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to disable account: %w", err)
		}
		// A worker without a live account still gets deleted.
	}

	if err := s.workerRepo.SoftDeleteWithTasks(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to delete worker: %w", err)
	}

	return worker, nil
}
