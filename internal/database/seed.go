package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"projectdesk/internal/config"
	"projectdesk/internal/constants"
	"projectdesk/internal/models"
)

// SeedAdmin creates the bootstrap admin account on an empty database. The
// system has no self-signup; without this account nobody could provision
// workers.
func SeedAdmin(cfg *config.Config) error {
	var count int64
	if err := DB.Model(&models.Account{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	if len(cfg.AdminPassword) < constants.MinPasswordLength {
		return fmt.Errorf("ADMIN_PASSWORD must be at least %d characters to seed the first admin account", constants.MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	account := models.Account{
		Email:         cfg.AdminEmail,
		PasswordHash:  string(hash),
		SecurityStamp: uuid.NewString(),
		Role:          models.RoleAdmin,
	}
	if err := DB.Create(&account).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Printf("Seeded admin account %s", cfg.AdminEmail)
	return nil
}
