package repository

import (
	"errors"

	"projectdesk/internal/models"
	"projectdesk/internal/utils"
)

var (
	// ErrStaleRecord is returned when an optimistic-concurrency update finds
	// the row changed since it was read. Callers re-fetch and retry or report
	// the conflict; no retry happens at this layer.
	ErrStaleRecord = errors.New("repository: record was modified concurrently")
)

// AccountRepository defines the interface for login-account data access.
// It is the Identity Provider side of the house: handing out principals,
// rotating security stamps, disabling logins.
type AccountRepository interface {
	// Create creates a new account
	Create(account *models.Account) error

	// FindByID finds an account by ID
	FindByID(id uint64) (*models.Account, error)

	// FindByEmail finds an account by its login email
	FindByEmail(email string) (*models.Account, error)

	// UpdateEmail changes the login email
	UpdateEmail(id uint64, email string) error

	// SetRole grants or revokes the admin role
	SetRole(id uint64, role models.Role) error

	// Disable blocks future logins and rotates the security stamp so every
	// session bound to the old stamp dies
	Disable(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID, deleted or not
	FindByID(id uint64) (*models.Project, error)

	// ListLive lists non-deleted projects with pagination
	ListLive(params utils.PaginationParams) ([]models.Project, int64, error)

	// Update persists field changes with an optimistic version check
	Update(project *models.Project) error

	// SoftDeleteWithTasks marks the project and every task in it deleted,
	// already-deleted tasks included, as one atomic batch
	SoftDeleteWithTasks(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID, deleted or not
	FindByID(id uint64) (*models.Task, error)

	// ListLive lists non-deleted tasks, optionally narrowed to one assignee
	ListLive(filter TaskFilter) ([]models.Task, int64, error)

	// ListLiveByAssignee returns all non-deleted tasks of one assignee in
	// store order, with the owning project preloaded
	ListLiveByAssignee(assignee string) ([]models.Task, error)

	// ListLiveByProject returns all non-deleted tasks of one project
	ListLiveByProject(projectID uint64) ([]models.Task, error)

	// HasLiveAssignment reports whether the assignee holds at least one
	// non-deleted task in the project
	HasLiveAssignment(projectID uint64, assignee string) (bool, error)

	// Update persists field changes with an optimistic version check
	Update(task *models.Task) error

	// SoftDelete marks a single task deleted
	SoftDelete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Assignee   *string
	State      *models.TaskState
	ProjectID  *uint64
	Pagination *utils.PaginationParams
}

// WorkerRepository defines the interface for worker data access
type WorkerRepository interface {
	// CreateWithAccount creates the worker and its login account atomically
	CreateWithAccount(worker *models.Worker, account *models.Account) error

	// FindByID finds a worker by ID, deleted or not
	FindByID(id uint64) (*models.Worker, error)

	// ListLive lists non-deleted workers with pagination
	ListLive(params utils.PaginationParams) ([]models.Worker, int64, error)

	// Update persists field changes with an optimistic version check
	Update(worker *models.Worker) error

	// SoftDeleteWithTasks marks the worker deleted and cascades to every
	// not-yet-deleted task assigned to the worker's email, atomically
	SoftDeleteWithTasks(id uint64) error
}
