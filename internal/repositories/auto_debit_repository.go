package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAutoDebitNotFound = errors.New("auto debit not found")

// autoDebitRepository implements AutoDebitRepositoryInterface
type autoDebitRepository struct {
	db *gorm.DB
}

// NewAutoDebitRepository creates a new auto debit repository
func NewAutoDebitRepository(db *gorm.DB) AutoDebitRepositoryInterface {
	return &autoDebitRepository{db: db}
}

// Create creates a new auto debit
func (r *autoDebitRepository) Create(autoDebit *models.AutoDebit) error {
	if err := r.db.Create(autoDebit).Error; err != nil {
		return fmt.Errorf("failed to create auto debit: %w", err)
	}
	return nil
}

// GetByID retrieves an auto debit by ID
func (r *autoDebitRepository) GetByID(id uuid.UUID) (*models.AutoDebit, error) {
	var autoDebit models.AutoDebit
	if err := r.db.Where("id = ?", id).First(&autoDebit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAutoDebitNotFound
		}
		return nil, fmt.Errorf("failed to get auto debit: %w", err)
	}
	return &autoDebit, nil
}

// GetByAccountID retrieves all auto debits for an account
func (r *autoDebitRepository) GetByAccountID(accountID uuid.UUID) ([]models.AutoDebit, error) {
	var autoDebits []models.AutoDebit
	if err := r.db.Where("account_id = ?", accountID).Order("next_debit_date ASC").Find(&autoDebits).Error; err != nil {
		return nil, fmt.Errorf("failed to get auto debits for account: %w", err)
	}
	return autoDebits, nil
}

// Update updates an auto debit
func (r *autoDebitRepository) Update(autoDebit *models.AutoDebit) error {
	if err := r.db.Save(autoDebit).Error; err != nil {
		return fmt.Errorf("failed to update auto debit: %w", err)
	}
	return nil
}

// FindDue returns active auto debits scheduled on or before today whose end
// date has not passed, ordered oldest first so the longest-overdue items are
// processed first.
func (r *autoDebitRepository) FindDue(today time.Time) ([]models.AutoDebit, error) {
	day := models.DateOnly(today)

	var autoDebits []models.AutoDebit
	err := r.db.Where("is_active = ?", true).
		Where("next_debit_date <= ?", endOfDay(day)).
		Where("end_date IS NULL OR end_date >= ?", day).
		Order("next_debit_date ASC").
		Find(&autoDebits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find due auto debits: %w", err)
	}
	return autoDebits, nil
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}
