package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"projectdesk/internal/models"
	"projectdesk/internal/repository"
	"projectdesk/internal/utils"
)

// EntityKind names the record types the access policy knows about.
type EntityKind string

const (
	KindProject EntityKind = "project"
	KindTask    EntityKind = "task"
	KindWorker  EntityKind = "worker"
)

// Operation names the actions the access policy decides on.
type Operation string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// AccessService decides, per identity and per record, what may be seen.
// Every method takes the acting identity explicitly and reads nothing but the
// store, so a decision is a pure function of current store state. Ownership
// can change between calls; decisions are never cached.
//
// "Not owner" and "does not exist" are deliberately indistinguishable here:
// both come back as a plain false so handlers can answer 404 without leaking
// which records exist.
type AccessService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *AccessService {
	return &AccessService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// IsOwner derives whether the identity owns the given record.
//
// A task is owned by the identity whose username matches its assignee,
// deleted or not — delete status is the visibility filter's concern.
// A project is owned through any non-deleted task in it assigned to the
// identity. Worker records have no ownership path; only admins manage them.
func (s *AccessService) IsOwner(identity models.Identity, kind EntityKind, id uint64) (bool, error) {
	if !identity.IsAuthenticated() {
		return false, nil
	}

	switch kind {
	case KindTask:
		task, err := s.taskRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to find task: %w", err)
		}
		return task.Assignee == identity.Username, nil

	case KindProject:
		owns, err := s.taskRepo.HasLiveAssignment(id, identity.Username)
		if err != nil {
			return false, fmt.Errorf("failed to check project assignments: %w", err)
		}
		return owns, nil

	default:
		return false, nil
	}
}

// CanAccess is the allow/deny decision per operation and record.
// Unauthenticated callers are denied outright, admins allowed outright.
// Non-admins may only read tasks and projects they own; every mutating
// operation is role-gated to admins elsewhere and denied here.
func (s *AccessService) CanAccess(identity models.Identity, op Operation, kind EntityKind, id uint64) (bool, error) {
	if !identity.IsAuthenticated() {
		return false, nil
	}
	if identity.IsAdmin() {
		return true, nil
	}
	if op != OpRead {
		return false, nil
	}

	switch kind {
	case KindTask:
		// Ownership survives deletion, visibility does not: once a task is
		// soft-deleted its assignee can no longer read it.
		task, err := s.taskRepo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("failed to find task: %w", err)
		}
		return !task.IsDeleted && task.Assignee == identity.Username, nil

	case KindProject:
		// Project ownership already requires a live task, so no extra
		// liveness check is needed here.
		return s.IsOwner(identity, KindProject, id)

	default:
		return false, nil
	}
}

// ListVisibleTasks narrows the task listing to what the identity may see:
// every non-deleted task for admins, the identity's own non-deleted tasks
// otherwise. Each call re-queries the store.
func (s *AccessService) ListVisibleTasks(identity models.Identity, params utils.PaginationParams) ([]models.Task, int64, error) {
	if !identity.IsAuthenticated() {
		return []models.Task{}, 0, nil
	}

	filter := repository.TaskFilter{Pagination: &params}
	if !identity.IsAdmin() {
		filter.Assignee = &identity.Username
	}

	tasks, total, err := s.taskRepo.ListLive(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListVisibleProjects narrows the project listing to what the identity may
// see. Non-admins see the projects referenced by their non-deleted tasks,
// de-duplicated by project id in first-seen order over those tasks.
func (s *AccessService) ListVisibleProjects(identity models.Identity, params utils.PaginationParams) ([]models.Project, int64, error) {
	if !identity.IsAuthenticated() {
		return []models.Project{}, 0, nil
	}

	if identity.IsAdmin() {
		projects, total, err := s.projectRepo.ListLive(params)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list projects: %w", err)
		}
		return projects, total, nil
	}

	tasks, err := s.taskRepo.ListLiveByAssignee(identity.Username)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assigned tasks: %w", err)
	}

	seen := make(map[uint64]struct{}, len(tasks))
	projects := make([]models.Project, 0, len(tasks))
	for _, task := range tasks {
		if _, ok := seen[task.ProjectID]; ok {
			continue
		}
		seen[task.ProjectID] = struct{}{}
		projects = append(projects, task.Project)
	}

	return projects, int64(len(projects)), nil
}
