package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"projectdesk/internal/models"
	"projectdesk/internal/repository"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrInvalidDateRange = errors.New("to date must be greater than from date")
	ErrConflict         = errors.New("record was modified concurrently")
)

// ProjectService handles project business logic, including the soft-delete
// cascade to the project's tasks.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// ProjectInput carries the writable project fields.
type ProjectInput struct {
	Name string
	From time.Time
	To   time.Time
}

// CreateProject validates the date window and creates the project.
func (s *ProjectService) CreateProject(input ProjectInput) (*models.Project, error) {
	if !input.To.After(input.From) {
		return nil, ErrInvalidDateRange
	}

	project := &models.Project{
		Name: input.Name,
		From: input.From,
		To:   input.To,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject returns a project by id together with its non-deleted tasks.
// Deleted projects resolve too; the caller has already passed the policy
// check before asking.
func (s *ProjectService) GetProject(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, err := s.taskRepo.ListLiveByProject(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project tasks: %w", err)
	}
	project.Tasks = tasks

	return project, nil
}

// UpdateProject replaces the writable fields of a project. A stale version
// surfaces as ErrConflict for the caller to re-fetch and retry.
func (s *ProjectService) UpdateProject(id uint64, version uint64, input ProjectInput) (*models.Project, error) {
	if !input.To.After(input.From) {
		return nil, ErrInvalidDateRange
	}

	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	project.Name = input.Name
	project.From = input.From
	project.To = input.To
	project.Version = version

	if err := s.projectRepo.Update(project); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrProjectNotFound
		case errors.Is(err, repository.ErrStaleRecord):
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// SoftDelete marks the project and every task in it deleted as one atomic
// batch, already-deleted tasks included. Calling it again on a deleted
// project is a no-op with the same final state.
func (s *ProjectService) SoftDelete(id uint64) error {
	if err := s.projectRepo.SoftDeleteWithTasks(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
