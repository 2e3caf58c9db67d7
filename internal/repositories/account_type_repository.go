package repositories

import (
	"errors"
	"fmt"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAccountTypeNotFound = errors.New("account type not found")

// accountTypeRepository implements AccountTypeRepositoryInterface
type accountTypeRepository struct {
	db *gorm.DB
}

// NewAccountTypeRepository creates a new account type repository
func NewAccountTypeRepository(db *gorm.DB) AccountTypeRepositoryInterface {
	return &accountTypeRepository{db: db}
}

// Create creates a new account type
func (r *accountTypeRepository) Create(accountType *models.AccountType) error {
	if err := r.db.Create(accountType).Error; err != nil {
		return fmt.Errorf("failed to create account type: %w", err)
	}
	return nil
}

// GetByID retrieves an account type by ID
func (r *accountTypeRepository) GetByID(id uuid.UUID) (*models.AccountType, error) {
	var accountType models.AccountType
	if err := r.db.Where("id = ?", id).First(&accountType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to get account type: %w", err)
	}
	return &accountType, nil
}

// GetByName retrieves an account type by its unique name
func (r *accountTypeRepository) GetByName(name string) (*models.AccountType, error) {
	var accountType models.AccountType
	if err := r.db.Where("name = ?", name).First(&accountType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountTypeNotFound
		}
		return nil, fmt.Errorf("failed to get account type by name: %w", err)
	}
	return &accountType, nil
}

// GetActive retrieves all active account types
func (r *accountTypeRepository) GetActive() ([]models.AccountType, error) {
	var accountTypes []models.AccountType
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&accountTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to get active account types: %w", err)
	}
	return accountTypes, nil
}

// GetByIDs retrieves account types for a batch of IDs keyed by ID
func (r *accountTypeRepository) GetByIDs(ids []uuid.UUID) (map[uuid.UUID]*models.AccountType, error) {
	result := make(map[uuid.UUID]*models.AccountType, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var accountTypes []models.AccountType
	if err := r.db.Where("id IN ?", ids).Find(&accountTypes).Error; err != nil {
		return nil, fmt.Errorf("failed to get account types: %w", err)
	}

	for i := range accountTypes {
		result[accountTypes[i].ID] = &accountTypes[i]
	}
	return result, nil
}
