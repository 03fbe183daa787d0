package repository

import (
	"gorm.io/gorm"

	"projectdesk/internal/database"
	"projectdesk/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID, deleted or not
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListLive lists non-deleted tasks with optional filters and pagination
func (r *GormTaskRepository) ListLive(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Scopes(database.NotDeleted)

	if filter.Assignee != nil {
		query = query.Where("tasks.assignee = ?", *filter.Assignee)
	}
	if filter.State != nil {
		query = query.Where("tasks.state = ?", *filter.State)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.id")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	var tasks []models.Task
	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListLiveByAssignee returns all non-deleted tasks of one assignee in store
// order, with the owning project preloaded. No pagination: the project
// visibility pass needs the full sequence to de-duplicate in first-seen order.
func (r *GormTaskRepository) ListLiveByAssignee(assignee string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Preload("Project").
		Scopes(database.NotDeleted).
		Where("assignee = ?", assignee).
		Order("tasks.id").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListLiveByProject returns all non-deleted tasks of one project
func (r *GormTaskRepository) ListLiveByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.Scopes(database.NotDeleted).
		Where("project_id = ?", projectID).
		Order("tasks.id").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// HasLiveAssignment reports whether the assignee holds at least one
// non-deleted task in the project
func (r *GormTaskRepository) HasLiveAssignment(projectID uint64, assignee string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Scopes(database.NotDeleted).
		Where("project_id = ? AND assignee = ?", projectID, assignee).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update persists field changes with an optimistic version check
func (r *GormTaskRepository) Update(task *models.Task) error {
	res := r.db.Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"name":     task.Name,
			"from":     task.From,
			"to":       task.To,
			"state":    task.State,
			"assignee": task.Assignee,
			"version":  task.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleRecord
	}
	task.Version++
	return nil
}

// SoftDelete marks a single task deleted. Idempotent by construction.
func (r *GormTaskRepository) SoftDelete(id uint64) error {
	res := r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
