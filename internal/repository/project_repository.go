package repository

import (
	"gorm.io/gorm"

	"projectdesk/internal/database"
	"projectdesk/internal/models"
	"projectdesk/internal/utils"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID. Deleted rows are returned too: admins may
// inspect deleted records, and access checks answer "not found" themselves.
func (r *GormProjectRepository) FindByID(id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListLive lists non-deleted projects with pagination
func (r *GormProjectRepository) ListLive(params utils.PaginationParams) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{}).Scopes(database.NotDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []models.Project
	if err := query.Order("projects.id").
		Scopes(database.Paginate(params)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update persists field changes with an optimistic version check
func (r *GormProjectRepository) Update(project *models.Project) error {
	res := r.db.Model(&models.Project{}).
		Where("id = ? AND version = ?", project.ID, project.Version).
		Updates(map[string]interface{}{
			"name":    project.Name,
			"from":    project.From,
			"to":      project.To,
			"version": project.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Project{}).Where("id = ?", project.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleRecord
	}
	project.Version++
	return nil
}

// SoftDeleteWithTasks marks the project and all of its tasks deleted in one
// transaction. The cascade covers already-deleted tasks as well, which also
// makes the operation idempotent.
func (r *GormProjectRepository) SoftDeleteWithTasks(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
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

		return tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"version":    gorm.Expr("version + 1"),
			}).Error
	})
}
