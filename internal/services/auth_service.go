package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"projectdesk/internal/models"
	"projectdesk/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
)

// AuthService is the Identity Provider face of the system: it authenticates
// credentials and resolves session data back into an acting identity.
type AuthService struct {
	accountRepo repository.AccountRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo repository.AccountRepository) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated account. Disabled
// accounts fail exactly like bad credentials: a deleted worker must not learn
// that the login itself still exists.
func (s *AuthService) Login(input LoginInput) (*models.Account, error) {
	account, err := s.accountRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if account.IsDisabled {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (s *AuthService) GetAccount(id uint64) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}
