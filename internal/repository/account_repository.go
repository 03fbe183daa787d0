package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"projectdesk/internal/models"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(id uint64) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by its login email
func (r *GormAccountRepository) FindByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateEmail changes the login email
func (r *GormAccountRepository) UpdateEmail(id uint64, email string) error {
	return r.touch(id, map[string]interface{}{"email": email})
}

// SetRole grants or revokes the admin role
func (r *GormAccountRepository) SetRole(id uint64, role models.Role) error {
	return r.touch(id, map[string]interface{}{"role": role})
}

// Disable blocks future logins and rotates the security stamp in the same
// update, so every session carrying the old stamp fails its next middleware
// check.
func (r *GormAccountRepository) Disable(id uint64) error {
	return r.touch(id, map[string]interface{}{
		"is_disabled":    true,
		"security_stamp": uuid.NewString(),
	})
}

func (r *GormAccountRepository) touch(id uint64, values map[string]interface{}) error {
	res := r.db.Model(&models.Account{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
