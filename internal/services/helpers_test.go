package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/database"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"
)

// fakeClock pins time so dormancy windows and hold expiries are deterministic
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// noopMetrics satisfies MetricsRecorderInterface without registering
// collectors in the process-wide prometheus registry.
type noopMetrics struct{}

func (noopMetrics) IncrementCounter(string, map[string]string)     {}
func (noopMetrics) RecordProcessingTime(string, time.Duration)     {}
func (noopMetrics) RecordGauge(string, float64, map[string]string) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires every repository and service against one in-memory database
type fixture struct {
	db    *database.DB
	clock *fakeClock

	accountRepo     repositories.AccountRepositoryInterface
	accountTypeRepo repositories.AccountTypeRepositoryInterface
	holdRepo        repositories.HoldRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	autoDebitRepo   repositories.AutoDebitRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface

	ledger       LedgerServiceInterface
	holds        HoldServiceInterface
	transactions TransactionServiceInterface
	lifecycle    LifecycleServiceInterface
	autoDebits   AutoDebitServiceInterface
	accounts     AccountServiceInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := database.SetupTestDB(t)
	clock := &fakeClock{now: time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)}
	logger := testLogger()
	metrics := noopMetrics{}
	auditLogger := NewAuditLogger(logger)

	f := &fixture{
		db:              db,
		clock:           clock,
		accountRepo:     repositories.NewAccountRepository(db.DB),
		accountTypeRepo: repositories.NewAccountTypeRepository(db.DB),
		holdRepo:        repositories.NewHoldRepository(db.DB),
		transactionRepo: repositories.NewTransactionRepository(db.DB),
		autoDebitRepo:   repositories.NewAutoDebitRepository(db.DB),
		userRepo:        repositories.NewUserRepository(db.DB),
		auditRepo:       repositories.NewAuditLogRepository(db.DB),
	}

	f.ledger = NewLedgerService(f.accountRepo, f.accountTypeRepo, f.holdRepo, clock, logger)
	f.holds = NewHoldService(f.accountRepo, f.holdRepo, f.auditRepo, auditLogger, metrics, clock, logger)
	f.transactions = NewTransactionService(f.accountRepo, f.accountTypeRepo, f.holdRepo, f.transactionRepo, f.auditRepo, auditLogger, metrics, clock, time.Second, logger)
	f.lifecycle = NewLifecycleService(f.accountRepo, f.accountTypeRepo, f.auditRepo, auditLogger, metrics, clock, logger)
	f.autoDebits = NewAutoDebitService(f.accountRepo, f.autoDebitRepo, f.userRepo, f.auditRepo, f.transactions, auditLogger, metrics, clock, 1000, 100, logger)
	f.accounts = NewAccountService(f.accountRepo, f.accountTypeRepo, f.userRepo, f.transactionRepo, f.auditRepo, auditLogger, metrics, clock, logger)

	return f
}
