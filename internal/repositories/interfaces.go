package repositories

import (
	"context"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountRepositoryInterface defines the contract for account repository operations
type AccountRepositoryInterface interface {
	Create(account *models.Account) error
	GetByID(id uuid.UUID) (*models.Account, error)
	GetByAccountNumber(accountNumber string) (*models.Account, error)
	GetByUserID(userID uuid.UUID) ([]models.Account, error)
	GetByStatus(status string) ([]models.Account, error)
	Update(account *models.Account) error
	UpdateTx(tx *gorm.DB, account *models.Account) error
	GenerateUniqueAccountNumber() (string, error)
	CreateWithTransaction(account *models.Account, transactions []models.Transaction) error

	// WithAccountsLocked runs fn inside a database transaction with row
	// locks held on every listed account, acquired in a fixed global order.
	// A lock wait exceeding lockTimeout fails with ErrLockTimeout.
	WithAccountsLocked(ctx context.Context, accountIDs []uuid.UUID, lockTimeout time.Duration, fn func(tx *gorm.DB, locked map[uuid.UUID]*models.Account) error) error
}

// AccountTypeRepositoryInterface defines the contract for account type repository operations
type AccountTypeRepositoryInterface interface {
	Create(accountType *models.AccountType) error
	GetByID(id uuid.UUID) (*models.AccountType, error)
	GetByName(name string) (*models.AccountType, error)
	GetActive() ([]models.AccountType, error)
	GetByIDs(ids []uuid.UUID) (map[uuid.UUID]*models.AccountType, error)
}

// HoldRepositoryInterface defines the contract for hold repository operations
type HoldRepositoryInterface interface {
	Create(hold *models.Hold) error
	GetByID(id uuid.UUID) (*models.Hold, error)
	GetByAccountID(accountID uuid.UUID) ([]models.Hold, error)
	Update(hold *models.Hold) error

	// ActiveHoldTotal sums holds with status=active whose expiry is null or
	// in the future. Expiry is evaluated lazily against now; lapsed holds
	// are excluded from the sum without a background sweep.
	ActiveHoldTotal(accountID uuid.UUID, now time.Time) (decimal.Decimal, error)
	ActiveHoldTotalTx(tx *gorm.DB, accountID uuid.UUID, now time.Time) (decimal.Decimal, error)

	// MarkLapsedExpired records the expired status on active holds whose
	// expiry has passed. Correctness never depends on it being called.
	MarkLapsedExpired(accountID uuid.UUID, now time.Time) (int64, error)
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	Create(transaction *models.Transaction) error
	CreateTx(tx *gorm.DB, transaction *models.Transaction) error
	GetByID(id uuid.UUID) (*models.Transaction, error)
	GetByTransactionID(transactionID string) (*models.Transaction, error)
	GetByAccountID(accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
	GetByDateRange(accountID uuid.UUID, startDate, endDate time.Time) ([]models.Transaction, error)
	GenerateUniqueTransactionID(now time.Time) (string, error)
	GenerateUniqueTransactionIDTx(tx *gorm.DB, now time.Time) (string, error)
}

// AutoDebitRepositoryInterface defines the contract for auto debit repository operations
type AutoDebitRepositoryInterface interface {
	Create(autoDebit *models.AutoDebit) error
	GetByID(id uuid.UUID) (*models.AutoDebit, error)
	GetByAccountID(accountID uuid.UUID) ([]models.AutoDebit, error)
	Update(autoDebit *models.AutoDebit) error

	// FindDue returns active auto debits whose end date has not passed and
	// whose next debit date is on or before today.
	FindDue(today time.Time) ([]models.AutoDebit, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByRole(role string) ([]models.User, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	GetByResource(resource, resourceID string, offset, limit int) ([]*models.AuditLog, int64, error)
}
