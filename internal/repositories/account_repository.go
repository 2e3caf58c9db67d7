package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrAccountNumberExists   = errors.New("account number already exists")
	ErrIDGenerationExhausted = errors.New("exhausted attempts to generate a unique identifier")
	ErrLockTimeout           = errors.New("timed out waiting for account lock")
)

const maxIDGenerationAttempts = 10

// postgresLockNotAvailable is the SQLSTATE raised when lock_timeout expires.
const postgresLockNotAvailable = pq.ErrorCode("55P03")

// accountRepository implements AccountRepositoryInterface
type accountRepository struct {
	db *gorm.DB
	mu sync.Mutex // For account number generation
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepositoryInterface {
	return &accountRepository{
		db: db,
	}
}

// Create creates a new account
func (r *accountRepository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAccountNumberExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByAccountNumber retrieves an account by account number
func (r *accountRepository) GetByAccountNumber(accountNumber string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by number: %w", err)
	}
	return &account, nil
}

// GetByUserID retrieves all accounts for a user
func (r *accountRepository) GetByUserID(userID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts for user: %w", err)
	}
	return accounts, nil
}

// GetByStatus retrieves accounts by status
func (r *accountRepository) GetByStatus(status string) ([]models.Account, error) {
	var accounts []models.Account
	if err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to get accounts by status: %w", err)
	}
	return accounts, nil
}

// Update updates an account
func (r *accountRepository) Update(account *models.Account) error {
	if err := r.db.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// UpdateTx updates an account within an existing transaction scope
func (r *accountRepository) UpdateTx(tx *gorm.DB, account *models.Account) error {
	if err := tx.Save(account).Error; err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// GenerateUniqueAccountNumber generates an account number that does not
// collide with any existing one. Candidates are checked against the
// accounts table and regenerated on collision, bounded by a retry cap so a
// persistent generator fault cannot loop forever.
func (r *accountRepository) GenerateUniqueAccountNumber() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxIDGenerationAttempts; i++ {
		accountNumber := models.GenerateAccountNumber()

		var count int64
		if err := r.db.Model(&models.Account{}).
			Where("account_number = ?", accountNumber).
			Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to check account number uniqueness: %w", err)
		}

		if count == 0 {
			return accountNumber, nil
		}
	}

	return "", ErrIDGenerationExhausted
}

// CreateWithTransaction creates an account with its opening transactions in
// one database transaction
func (r *accountRepository) CreateWithTransaction(account *models.Account, transactions []models.Transaction) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}

		for i := range transactions {
			id := account.ID
			transactions[i].ToAccountID = &id
			if err := tx.Create(&transactions[i]).Error; err != nil {
				return fmt.Errorf("failed to create opening transaction: %w", err)
			}
		}

		return nil
	})
}

// WithAccountsLocked acquires row locks on the listed accounts inside a
// single database transaction and runs fn with the locked rows. Locks are
// always taken in ascending account-ID order so two concurrent operations
// touching the same pair of accounts cannot circular-wait. The whole unit
// commits or rolls back together.
func (r *accountRepository) WithAccountsLocked(ctx context.Context, accountIDs []uuid.UUID, lockTimeout time.Duration, fn func(tx *gorm.DB, locked map[uuid.UUID]*models.Account) error) error {
	ids := dedupeSorted(accountIDs)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if r.supportsRowLocks() && lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}

		locked := make(map[uuid.UUID]*models.Account, len(ids))
		for _, id := range ids {
			account := &models.Account{}
			query := tx.Where("id = ?", id)
			if r.supportsRowLocks() {
				query = query.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			if err := query.First(account).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrAccountNotFound
				}
				return fmt.Errorf("failed to lock account %s: %w", id, err)
			}
			locked[id] = account
		}

		return fn(tx, locked)
	})

	return translateLockError(err)
}

// supportsRowLocks reports whether the dialect understands SELECT ... FOR
// UPDATE. SQLite serializes writers on its own, so the clause is skipped
// there.
func (r *accountRepository) supportsRowLocks() bool {
	return r.db.Dialector.Name() == "postgres"
}

// dedupeSorted returns the IDs deduplicated and in the fixed global lock
// order (ascending identifier).
func dedupeSorted(accountIDs []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(accountIDs))
	ids := make([]uuid.UUID, 0, len(accountIDs))
	for _, id := range accountIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})

	return ids
}

// translateLockError maps the postgres lock-wait failure to the retryable
// sentinel; everything else passes through.
func translateLockError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == postgresLockNotAvailable {
		return ErrLockTimeout
	}

	return err
}
