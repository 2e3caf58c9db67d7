package services

import (
	"context"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerServiceInterface defines balance arithmetic for a single account.
// Available balance is always derived; only the posted balance is stored.
type LedgerServiceInterface interface {
	// AvailableBalance returns max(0, balance - active hold total).
	AvailableBalance(accountID uuid.UUID) (decimal.Decimal, error)

	// ApplyDelta adjusts the posted balance by a signed amount. Negative
	// deltas must fit within the available balance; positive deltas must not
	// push the balance past the account type's maximum.
	ApplyDelta(accountID uuid.UUID, delta decimal.Decimal) (*models.Account, error)
}

// HoldServiceInterface defines hold placement and release. Placing a hold
// never checks the available balance: holds may exceed it and simply pin
// the available balance at zero.
type HoldServiceInterface interface {
	PlaceHold(actor *models.User, accountID uuid.UUID, amount decimal.Decimal, reason string, expiresAt *time.Time) (*models.Hold, error)
	ReleaseHold(actor *models.User, holdID uuid.UUID) (*models.Hold, error)
	ActiveHoldTotal(accountID uuid.UUID) (decimal.Decimal, error)
	GetHoldsForAccount(actor *models.User, accountID uuid.UUID) ([]models.Hold, error)
}

// SubmitTransactionRequest carries the caller-supplied fields of a
// transaction submission. Exactly the accounts the type requires may be set.
type SubmitTransactionRequest struct {
	Type          string          `json:"type" validate:"required,transaction_type"`
	FromAccountID *uuid.UUID      `json:"from_account_id,omitempty"`
	ToAccountID   *uuid.UUID      `json:"to_account_id,omitempty"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Fee           decimal.Decimal `json:"fee"`
	Description   string          `json:"description,omitempty" validate:"max=500"`
	Reference     string          `json:"reference,omitempty" validate:"max=100"`
	Metadata      models.JSONBMap `json:"metadata,omitempty"`
}

// TransactionServiceInterface defines transaction submission: validation,
// atomic execution under account locks, and dormant reactivation on credit.
type TransactionServiceInterface interface {
	Submit(ctx context.Context, actor *models.User, req SubmitTransactionRequest) (*models.Transaction, error)
	GetTransaction(actor *models.User, transactionID string) (*models.Transaction, error)
	GetTransactionsForAccount(actor *models.User, accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error)
}

// LifecycleServiceInterface defines account status management
type LifecycleServiceInterface interface {
	// SetStatus performs an explicit transition. Blocking and unblocking
	// require staff; closing requires an administrator.
	SetStatus(actor *models.User, accountID uuid.UUID, newStatus, reason string) (*models.Account, error)

	// MarkDormantAccounts sweeps active accounts whose inactivity window has
	// elapsed and transitions them to dormant. Returns the IDs transitioned.
	MarkDormantAccounts() ([]uuid.UUID, error)
}

// AutoDebitResult reports the outcome of one due item in a scheduler run
type AutoDebitResult struct {
	AutoDebitID   uuid.UUID `json:"auto_debit_id"`
	AccountID     uuid.UUID `json:"account_id"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Succeeded     bool      `json:"succeeded"`
	Error         string    `json:"error,omitempty"`
}

// AutoDebitServiceInterface defines recurring debit management and the
// scheduler pass over due items.
type AutoDebitServiceInterface interface {
	CreateAutoDebit(actor *models.User, accountID uuid.UUID, name string, amount decimal.Decimal, frequency string, firstDebitDate time.Time, endDate *time.Time) (*models.AutoDebit, error)
	DisableAutoDebit(actor *models.User, autoDebitID uuid.UUID) (*models.AutoDebit, error)
	GetAutoDebitsForAccount(actor *models.User, accountID uuid.UUID) ([]models.AutoDebit, error)

	// ProcessDue runs every due auto debit as its own transaction
	// submission. One item's failure never aborts the rest of the run.
	ProcessDue(ctx context.Context) ([]AutoDebitResult, error)
}

// AccountServiceInterface defines account provisioning and retrieval
type AccountServiceInterface interface {
	CreateAccount(actor *models.User, ownerID, accountTypeID uuid.UUID, initialDeposit decimal.Decimal) (*models.Account, error)
	GetAccount(actor *models.User, accountID uuid.UUID) (*models.Account, error)
	GetAccountsForUser(actor *models.User, userID uuid.UUID) ([]models.Account, error)
}

// AuditLoggerInterface defines structured event logging for money movement
type AuditLoggerInterface interface {
	LogAccountCreated(ctx context.Context, accountID uuid.UUID, accountNumber string, createdBy uuid.UUID)
	LogStatusChanged(ctx context.Context, accountID uuid.UUID, oldStatus, newStatus, reason string)
	LogTransactionCompleted(ctx context.Context, transactionID, transactionType string, amount string, durationMs int64)
	LogTransactionFailed(ctx context.Context, transactionType, reason string)
	LogHoldPlaced(ctx context.Context, holdID, accountID uuid.UUID, amount string)
	LogHoldReleased(ctx context.Context, holdID, accountID uuid.UUID)
	LogDormancySweep(ctx context.Context, marked int)
	LogAutoDebitRun(ctx context.Context, processed, failed int, durationMs int64)
}

// MetricsRecorderInterface abstracts metrics collection
type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}
