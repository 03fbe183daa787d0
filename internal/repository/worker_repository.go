package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"projectdesk/internal/database"
	"projectdesk/internal/models"
	"projectdesk/internal/utils"
)

var (
	// ErrCreateAccount is returned when creating the login account fails inside the provisioning transaction.
	ErrCreateAccount = errors.New("worker repository: create account failed")
	// ErrCreateWorker is returned when creating the worker record fails inside the provisioning transaction.
	ErrCreateWorker = errors.New("worker repository: create worker failed")
)

// GormWorkerRepository is a GORM implementation of WorkerRepository
type GormWorkerRepository struct {
	db *gorm.DB
}

// NewWorkerRepository creates a new WorkerRepository
func NewWorkerRepository(db *gorm.DB) WorkerRepository {
	return &GormWorkerRepository{db: db}
}

// CreateWithAccount creates the login account and the worker record atomically.
func (r *GormWorkerRepository) CreateWithAccount(worker *models.Worker, account *models.Account) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateAccount, err)
		}

		worker.AccountID = account.ID

		if err := tx.Create(worker).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateWorker, err)
		}

		return nil
	})
}

// FindByID finds a worker by ID, deleted or not
func (r *GormWorkerRepository) FindByID(id uint64) (*models.Worker, error) {
	var worker models.Worker
	if err := r.db.First(&worker, id).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

// ListLive lists non-deleted workers with pagination
func (r *GormWorkerRepository) ListLive(params utils.PaginationParams) ([]models.Worker, int64, error) {
	query := r.db.Model(&models.Worker{}).Scopes(database.NotDeleted)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var workers []models.Worker
	if err := query.Order("workers.id").
		Scopes(database.Paginate(params)).
		Find(&workers).Error; err != nil {
		return nil, 0, err
	}

	return workers, total, nil
}

// Update persists field changes with an optimistic version check
func (r *GormWorkerRepository) Update(worker *models.Worker) error {
	res := r.db.Model(&models.Worker{}).
		Where("id = ? AND version = ?", worker.ID, worker.Version).
		Updates(map[string]interface{}{
			"first_name":     worker.FirstName,
			"last_name":      worker.LastName,
			"email":          worker.Email,
			"birth_date":     worker.BirthDate,
			"position":       worker.Position,
			"hire_date":      worker.HireDate,
			"fire_date":      worker.FireDate,
			"status":         worker.Status,
			"education_type": worker.EducationType,
			"role":           worker.Role,
			"version":        worker.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Worker{}).Where("id = ?", worker.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrStaleRecord
	}
	worker.Version++
	return nil
}

// SoftDeleteWithTasks marks the worker deleted and cascades to every
// not-yet-deleted task assigned to the worker's email, in one transaction.
// Tasks are matched defensively by the stored email string alone; rows with
// historically invalid date windows cascade like any other.
func (r *GormWorkerRepository) SoftDeleteWithTasks(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var worker models.Worker
		if err := tx.First(&worker, id).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Worker{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"version":    gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}

		return tx.Model(&models.Task{}).
			Where("assignee = ? AND is_deleted = ?", worker.Email, false).
			Updates(map[string]interface{}{
				"is_deleted": true,
				"version":    gorm.Expr("version + 1"),
			}).Error
	})
}
