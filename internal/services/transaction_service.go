package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// transactionService implements TransactionServiceInterface. Submission is
// two-phase: an unlocked validation pass rejects bad requests cheaply, then
// the same checks run again under row locks so concurrent submissions cannot
// spend the same funds.
type transactionService struct {
	accountRepo     repositories.AccountRepositoryInterface
	accountTypeRepo repositories.AccountTypeRepositoryInterface
	holdRepo        repositories.HoldRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	clock           Clock
	lockTimeout     time.Duration
	logger          *slog.Logger
}

// NewTransactionService creates a transaction service
func NewTransactionService(
	accountRepo repositories.AccountRepositoryInterface,
	accountTypeRepo repositories.AccountTypeRepositoryInterface,
	holdRepo repositories.HoldRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	clock Clock,
	lockTimeout time.Duration,
	logger *slog.Logger,
) TransactionServiceInterface {
	return &transactionService{
		accountRepo:     accountRepo,
		accountTypeRepo: accountTypeRepo,
		holdRepo:        holdRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		auditLogger:     auditLogger,
		metrics:         metrics,
		clock:           clock,
		lockTimeout:     lockTimeout,
		logger:          logger,
	}
}

// Submit validates and executes a transaction. Checks run in a fixed order
// so callers always see the most fundamental failure first: shape,
// authorization, account status, amount, limits, then funds. A transfer is
// one atomic unit; no observer ever sees the debit without the credit.
func (s *transactionService) Submit(ctx context.Context, actor *models.User, req SubmitTransactionRequest) (*models.Transaction, error) {
	started := s.clock.Now()

	transaction, err := s.buildTransaction(req)
	if err != nil {
		s.reportFailure(ctx, req.Type, err)
		return nil, err
	}

	if err := s.authorize(actor, transaction); err != nil {
		s.reportFailure(ctx, req.Type, err)
		return nil, err
	}

	// Unlocked pre-check. Everything here is re-validated under lock; this
	// pass only exists to fail bad requests without lock traffic.
	if err := s.validateAgainstCurrentState(nil, transaction); err != nil {
		s.reportFailure(ctx, req.Type, err)
		return nil, err
	}

	if err := s.executeLocked(ctx, actor, transaction); err != nil {
		s.reportFailure(ctx, req.Type, err)
		return nil, err
	}

	durationMs := s.clock.Now().Sub(started).Milliseconds()
	s.auditLogger.LogTransactionCompleted(ctx, transaction.TransactionID, transaction.Type, transaction.Amount.String(), durationMs)
	s.metrics.IncrementCounter("transaction.processed.success", map[string]string{"operation": transaction.Type})
	s.metrics.RecordProcessingTime("transaction.processing", time.Duration(durationMs)*time.Millisecond)
	s.recordAudit(actor, models.AuditActionTransactionCompleted, transaction)

	return transaction, nil
}

// GetTransaction retrieves a transaction by its public reference, scoped to
// the caller's accounts for customers.
func (s *transactionService) GetTransaction(actor *models.User, transactionID string) (*models.Transaction, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	transaction, err := s.transactionRepo.GetByTransactionID(transactionID)
	if err != nil {
		return nil, translateTransactionError(err)
	}

	if actor.IsCustomer() {
		touches, err := s.actorTouches(actor, transaction)
		if err != nil {
			return nil, err
		}
		if !touches {
			return nil, ErrUnauthorized
		}
	}

	return transaction, nil
}

// GetTransactionsForAccount lists an account's transaction history
func (s *transactionService) GetTransactionsForAccount(actor *models.User, accountID uuid.UUID, offset, limit int) ([]models.Transaction, int64, error) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, 0, translateAccountError(err)
	}

	if actor == nil || (actor.IsCustomer() && account.UserID != actor.ID) {
		return nil, 0, ErrUnauthorized
	}

	return s.transactionRepo.GetByAccountID(accountID, offset, limit)
}

// buildTransaction assembles the record and enforces shape and amount rules
// before anything touches the database.
func (s *transactionService) buildTransaction(req SubmitTransactionRequest) (*models.Transaction, error) {
	transaction := &models.Transaction{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Type:          req.Type,
		Amount:        req.Amount,
		Fee:           req.Fee,
		Description:   req.Description,
		Reference:     req.Reference,
		Status:        models.TransactionStatusCompleted,
		Metadata:      req.Metadata,
	}

	if err := transaction.ValidateShape(); err != nil {
		return nil, err
	}

	if transaction.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	if transaction.Fee.IsNegative() {
		return nil, ErrInvalidAmount
	}

	return transaction, nil
}

// authorize enforces who may move money. Staff may submit anything;
// customers only against their own accounts.
func (s *transactionService) authorize(actor *models.User, transaction *models.Transaction) error {
	if actor == nil {
		return ErrUnauthorized
	}
	transaction.ProcessedBy = &actor.ID

	if !actor.IsCustomer() {
		return nil
	}

	touches, err := s.actorTouches(actor, transaction)
	if err != nil {
		return err
	}
	if !touches {
		return ErrUnauthorized
	}
	return nil
}

// actorTouches reports whether the actor owns the account the transaction
// draws from, or for a pure credit, the account it pays into.
func (s *transactionService) actorTouches(actor *models.User, transaction *models.Transaction) (bool, error) {
	checkID := transaction.FromAccountID
	if checkID == nil {
		checkID = transaction.ToAccountID
	}

	account, err := s.accountRepo.GetByID(*checkID)
	if err != nil {
		return false, translateAccountError(err)
	}

	return account.UserID == actor.ID, nil
}

// validateAgainstCurrentState checks statuses, limits and funds against the
// given transaction scope. With tx nil it reads committed state; inside
// executeLocked it reads the locked rows, which is the authoritative pass.
func (s *transactionService) validateAgainstCurrentState(tx *gorm.DB, transaction *models.Transaction) error {
	var source, destination *models.Account
	var err error

	if transaction.FromAccountID != nil {
		source, err = s.getAccount(tx, *transaction.FromAccountID)
		if err != nil {
			return err
		}
		if !source.IsActive() {
			return ErrAccountNotActive
		}
	}

	if transaction.ToAccountID != nil {
		destination, err = s.getAccount(tx, *transaction.ToAccountID)
		if err != nil {
			return err
		}
		// Credits may land on dormant accounts (and reactivate them), but
		// never on blocked or closed ones.
		if destination.IsClosed() || destination.Status == models.AccountStatusBlocked {
			return ErrAccountNotActive
		}
	}

	limitAccount := source
	if limitAccount == nil {
		limitAccount = destination
	}

	limitType, err := s.accountTypeRepo.GetByID(limitAccount.AccountTypeID)
	if err != nil {
		return translateAccountError(err)
	}
	if limitType.ExceedsPerTransactionLimit(transaction.Amount) {
		return ErrLimitExceeded
	}

	if destination != nil {
		destinationType := limitType
		if source != nil {
			destinationType, err = s.accountTypeRepo.GetByID(destination.AccountTypeID)
			if err != nil {
				return translateAccountError(err)
			}
		}
		if destinationType.ExceedsMaxBalance(destination.Balance.Add(transaction.Amount)) {
			return ErrLimitExceeded
		}
	}

	if source != nil && transaction.MovesFunds() {
		holdTotal, err := s.activeHoldTotal(tx, source.ID)
		if err != nil {
			return err
		}
		if transaction.TotalDebitAmount().GreaterThan(availableOf(source.Balance, holdTotal)) {
			return ErrInsufficientFunds
		}
	}

	return nil
}

// executeLocked runs the authoritative validation and the balance mutations
// inside one database transaction with both accounts row-locked in global
// order. The transaction record, both balance changes and any dormant
// reactivation commit together or not at all.
func (s *transactionService) executeLocked(ctx context.Context, actor *models.User, transaction *models.Transaction) error {
	var accountIDs []uuid.UUID
	if transaction.FromAccountID != nil {
		accountIDs = append(accountIDs, *transaction.FromAccountID)
	}
	if transaction.ToAccountID != nil {
		accountIDs = append(accountIDs, *transaction.ToAccountID)
	}

	now := s.clock.Now()

	return s.accountRepo.WithAccountsLocked(ctx, accountIDs, s.lockTimeout, func(tx *gorm.DB, locked map[uuid.UUID]*models.Account) error {
		if err := s.validateAgainstCurrentState(tx, transaction); err != nil {
			return err
		}

		transactionID, err := s.transactionRepo.GenerateUniqueTransactionIDTx(tx, now)
		if err != nil {
			return err
		}
		transaction.TransactionID = transactionID

		if err := s.transactionRepo.CreateTx(tx, transaction); err != nil {
			return err
		}

		if transaction.FromAccountID != nil {
			source := locked[*transaction.FromAccountID]
			source.Balance = source.Balance.Sub(transaction.TotalDebitAmount())
			source.TouchActivity(now)
			if err := s.accountRepo.UpdateTx(tx, source); err != nil {
				return err
			}
		}

		if transaction.ToAccountID != nil {
			destination := locked[*transaction.ToAccountID]
			destination.Balance = destination.Balance.Add(transaction.Amount)
			destination.TouchActivity(now)

			if destination.IsDormant() {
				if err := s.maybeReactivate(tx, destination, now); err != nil {
					return err
				}
			}

			if err := s.accountRepo.UpdateTx(tx, destination); err != nil {
				return err
			}
		}

		return nil
	})
}

// maybeReactivate wakes a dormant account on incoming credit when its type
// opts in.
func (s *transactionService) maybeReactivate(tx *gorm.DB, account *models.Account, now time.Time) error {
	accountType, err := s.accountTypeRepo.GetByID(account.AccountTypeID)
	if err != nil {
		return translateAccountError(err)
	}

	if !accountType.ReactivateOnCredit {
		return nil
	}

	if err := account.TransitionTo(models.AccountStatusActive, now); err != nil {
		return fmt.Errorf("failed to reactivate dormant account: %w", err)
	}

	s.logger.Info("dormant account reactivated on credit",
		slog.String("account_id", account.ID.String()),
	)
	return nil
}

func (s *transactionService) getAccount(tx *gorm.DB, id uuid.UUID) (*models.Account, error) {
	if tx == nil {
		account, err := s.accountRepo.GetByID(id)
		return account, translateAccountError(err)
	}

	var account models.Account
	if err := tx.Where("id = ?", id).First(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to read account in transaction scope: %w", err)
	}
	return &account, nil
}

func (s *transactionService) activeHoldTotal(tx *gorm.DB, accountID uuid.UUID) (decimal.Decimal, error) {
	if tx == nil {
		return s.holdRepo.ActiveHoldTotal(accountID, s.clock.Now())
	}
	return s.holdRepo.ActiveHoldTotalTx(tx, accountID, s.clock.Now())
}

func (s *transactionService) reportFailure(ctx context.Context, transactionType string, err error) {
	s.auditLogger.LogTransactionFailed(ctx, transactionType, err.Error())
	s.metrics.IncrementCounter("transaction.processed.failed", map[string]string{
		"operation": transactionType,
		"reason":    string(ErrorCodeFor(err)),
	})
}

func (s *transactionService) recordAudit(actor *models.User, action string, transaction *models.Transaction) {
	entry := &models.AuditLog{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "transaction",
		ResourceID: transaction.TransactionID,
	}
	entry.SetMetadata("type", transaction.Type)
	entry.SetMetadata("amount", transaction.Amount.String())

	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

// translateTransactionError maps repository sentinels onto service ones
func translateTransactionError(err error) error {
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return ErrTransactionNotFound
	}
	return translateAccountError(err)
}
