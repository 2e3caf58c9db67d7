package repositories

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
	mu sync.Mutex // For transaction ID generation
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{db: db}
}

// Create creates a new transaction record
func (r *transactionRepository) Create(transaction *models.Transaction) error {
	if err := r.db.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateTx creates a transaction record within an existing transaction scope
func (r *transactionRepository) CreateTx(tx *gorm.DB, transaction *models.Transaction) error {
	if err := tx.Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (r *transactionRepository) GetByID(id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("id = ?", id).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetByTransactionID retrieves a transaction by its public reference
func (r *transactionRepository) GetByTransactionID(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Where("transaction_id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return &transaction, nil
}

// GetByAccountID retrieves transactions touching an account, newest first,
// with offset/limit pagination and the total count
func (r *transactionRepository) GetByAccountID(accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	query := r.db.Model(&models.Transaction{}).
		Where("from_account_id = ? OR to_account_id = ?", accountID, accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var transactions []models.Transaction
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to get transactions for account: %w", err)
	}

	return transactions, total, nil
}

// GetByDateRange retrieves an account's transactions within [startDate, endDate]
func (r *transactionRepository) GetByDateRange(accountID uuid.UUID, startDate, endDate time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.Where("from_account_id = ? OR to_account_id = ?", accountID, accountID).
		Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

// GenerateUniqueTransactionID generates a date-stamped transaction reference
// that does not collide with any existing one, regenerating on collision up
// to a retry cap.
func (r *transactionRepository) GenerateUniqueTransactionID(now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generateUniqueTransactionID(r.db, now)
}

// GenerateUniqueTransactionIDTx is GenerateUniqueTransactionID within an
// existing transaction scope
func (r *transactionRepository) GenerateUniqueTransactionIDTx(tx *gorm.DB, now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generateUniqueTransactionID(tx, now)
}

func (r *transactionRepository) generateUniqueTransactionID(db *gorm.DB, now time.Time) (string, error) {
	for i := 0; i < maxIDGenerationAttempts; i++ {
		transactionID := models.GenerateTransactionID(now)

		var count int64
		if err := db.Model(&models.Transaction{}).
			Where("transaction_id = ?", transactionID).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check transaction ID uniqueness: %w", err)
		}

		if count == 0 {
			return transactionID, nil
		}
	}

	return "", ErrIDGenerationExhausted
}
