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
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectDeleted  = errors.New("project is deleted")
	ErrUnknownAssignee = errors.New("assignee does not match any account")
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	accountRepo repository.AccountRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, accountRepo repository.AccountRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		accountRepo: accountRepo,
	}
}

// TaskInput carries the writable task fields.
type TaskInput struct {
	Name     string
	From     time.Time
	To       time.Time
	State    models.TaskState
	Assignee string
}

// CreateTaskInput adds the owning project to the writable fields.
type CreateTaskInput struct {
	TaskInput
	ProjectID uint64
}

// CreateTask creates a task under a live project. The assignee must match an
// existing account at creation time; the reference is still recorded by
// value, so it may dangle later without breaking anything but access.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if !input.To.After(input.From) {
		return nil, ErrInvalidDateRange
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.IsDeleted {
		return nil, ErrProjectDeleted
	}

	if err := s.checkAssignee(input.Assignee); err != nil {
		return nil, err
	}

	state := input.State
	if state == "" {
		state = models.TaskStatePlanned
	}

	task := &models.Task{
		Name:      input.Name,
		From:      input.From,
		To:        input.To,
		State:     state,
		ProjectID: project.ID,
		Assignee:  input.Assignee,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task by id, deleted or not. Policy has already decided
// whether the caller may see it.
func (s *TaskService) GetTask(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTask replaces the writable fields of a task.
func (s *TaskService) UpdateTask(id uint64, version uint64, input TaskInput) (*models.Task, error) {
	if !input.To.After(input.From) {
		return nil, ErrInvalidDateRange
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Assignee != task.Assignee {
		if err := s.checkAssignee(input.Assignee); err != nil {
			return nil, err
		}
	}

	task.Name = input.Name
	task.From = input.From
	task.To = input.To
	task.State = input.State
	task.Assignee = input.Assignee
	task.Version = version

	if err := s.taskRepo.Update(task); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrStaleRecord):
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// SoftDelete marks a single task deleted. No cascade: tasks have no
// dependents.
func (s *TaskService) SoftDelete(id uint64) error {
	if err := s.taskRepo.SoftDelete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) checkAssignee(assignee string) error {
	if assignee == "" {
		return nil
	}
	if _, err := s.accountRepo.FindByEmail(assignee); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownAssignee
		}
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	return nil
}
