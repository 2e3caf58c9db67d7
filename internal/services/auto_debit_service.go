package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// autoDebitService implements AutoDebitServiceInterface. ProcessDue funnels
// every due item through the transaction service so scheduled debits obey
// exactly the same validation and locking as manual ones.
type autoDebitService struct {
	accountRepo        repositories.AccountRepositoryInterface
	autoDebitRepo      repositories.AutoDebitRepositoryInterface
	userRepo           repositories.UserRepositoryInterface
	auditRepo          repositories.AuditLogRepositoryInterface
	transactionService TransactionServiceInterface
	auditLogger        AuditLoggerInterface
	metrics            MetricsRecorderInterface
	clock              Clock
	limiter            *rate.Limiter
	logger             *slog.Logger
}

// NewAutoDebitService creates an auto debit service. ratePerSecond bounds how
// fast a scheduler run issues debits so a large backlog cannot saturate the
// database.
func NewAutoDebitService(
	accountRepo repositories.AccountRepositoryInterface,
	autoDebitRepo repositories.AutoDebitRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	transactionService TransactionServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	clock Clock,
	ratePerSecond float64,
	burst int,
	logger *slog.Logger,
) AutoDebitServiceInterface {
	return &autoDebitService{
		accountRepo:        accountRepo,
		autoDebitRepo:      autoDebitRepo,
		userRepo:           userRepo,
		auditRepo:          auditRepo,
		transactionService: transactionService,
		auditLogger:        auditLogger,
		metrics:            metrics,
		clock:              clock,
		limiter:            rate.NewLimiter(rate.Limit(ratePerSecond), burst),
		logger:             logger,
	}
}

// CreateAutoDebit registers a recurring debit against an account
func (s *autoDebitService) CreateAutoDebit(actor *models.User, accountID uuid.UUID, name string, amount decimal.Decimal, frequency string, firstDebitDate time.Time, endDate *time.Time) (*models.AutoDebit, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if actor.IsCustomer() && account.UserID != actor.ID {
		return nil, ErrUnauthorized
	}

	if !account.IsActive() {
		return nil, ErrAccountNotActive
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	autoDebit := &models.AutoDebit{
		AccountID:     accountID,
		Name:          name,
		Amount:        amount,
		Frequency:     frequency,
		NextDebitDate: models.DateOnly(firstDebitDate),
		EndDate:       endDate,
		IsActive:      true,
		CreatedBy:     actor.ID,
	}

	if err := s.autoDebitRepo.Create(autoDebit); err != nil {
		return nil, fmt.Errorf("failed to create auto debit: %w", err)
	}

	s.recordAudit(actor.ID, models.AuditActionAutoDebitCreated, autoDebit)
	return autoDebit, nil
}

// DisableAutoDebit turns a schedule off. Disabling is idempotent.
func (s *autoDebitService) DisableAutoDebit(actor *models.User, autoDebitID uuid.UUID) (*models.AutoDebit, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	autoDebit, err := s.autoDebitRepo.GetByID(autoDebitID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if actor.IsCustomer() {
		account, err := s.accountRepo.GetByID(autoDebit.AccountID)
		if err != nil {
			return nil, translateAccountError(err)
		}
		if account.UserID != actor.ID {
			return nil, ErrUnauthorized
		}
	}

	if !autoDebit.IsActive {
		return autoDebit, nil
	}

	autoDebit.Disable()
	if err := s.autoDebitRepo.Update(autoDebit); err != nil {
		return nil, fmt.Errorf("failed to disable auto debit: %w", err)
	}

	s.recordAudit(actor.ID, models.AuditActionAutoDebitDisabled, autoDebit)
	return autoDebit, nil
}

// GetAutoDebitsForAccount lists an account's schedules
func (s *autoDebitService) GetAutoDebitsForAccount(actor *models.User, accountID uuid.UUID) ([]models.AutoDebit, error) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if actor == nil || (actor.IsCustomer() && account.UserID != actor.ID) {
		return nil, ErrUnauthorized
	}

	return s.autoDebitRepo.GetByAccountID(accountID)
}

// ProcessDue runs one scheduler pass. Each due item is submitted as its own
// transaction on behalf of the user who created the schedule; a failed item
// is reported, left un-advanced for retry on the next pass, and never stops
// the remaining items.
func (s *autoDebitService) ProcessDue(ctx context.Context) ([]AutoDebitResult, error) {
	started := s.clock.Now()

	due, err := s.autoDebitRepo.FindDue(started)
	if err != nil {
		return nil, fmt.Errorf("failed to load due auto debits: %w", err)
	}

	results := make([]AutoDebitResult, 0, len(due))
	failed := 0

	for i := range due {
		if err := s.limiter.Wait(ctx); err != nil {
			return results, fmt.Errorf("scheduler run interrupted: %w", err)
		}

		result := s.processOne(ctx, &due[i])
		if !result.Succeeded {
			failed++
		}
		results = append(results, result)
	}

	durationMs := s.clock.Now().Sub(started).Milliseconds()
	s.auditLogger.LogAutoDebitRun(ctx, len(results)-failed, failed, durationMs)
	s.metrics.RecordGauge("auto_debit.due", float64(len(due)), nil)

	return results, nil
}

func (s *autoDebitService) processOne(ctx context.Context, autoDebit *models.AutoDebit) AutoDebitResult {
	result := AutoDebitResult{
		AutoDebitID: autoDebit.ID,
		AccountID:   autoDebit.AccountID,
	}

	creator, err := s.userRepo.GetByID(autoDebit.CreatedBy)
	if err != nil {
		result.Error = translateAccountError(err).Error()
		s.reportItemFailure(autoDebit, result.Error)
		return result
	}

	accountID := autoDebit.AccountID
	transaction, err := s.transactionService.Submit(ctx, creator, SubmitTransactionRequest{
		Type:          models.TransactionTypeDebit,
		FromAccountID: &accountID,
		Amount:        autoDebit.Amount,
		Description:   fmt.Sprintf("Auto debit: %s", autoDebit.Name),
		Metadata:      models.JSONBMap{"auto_debit_id": autoDebit.ID.String()},
	})
	if err != nil {
		result.Error = err.Error()
		s.reportItemFailure(autoDebit, result.Error)
		return result
	}

	// Only a successful debit advances the schedule; a failed one stays due
	// and is retried on the next pass.
	autoDebit.Advance()
	if err := s.autoDebitRepo.Update(autoDebit); err != nil {
		s.logger.Error("debit succeeded but schedule did not advance",
			slog.String("auto_debit_id", autoDebit.ID.String()),
			slog.String("transaction_id", transaction.TransactionID),
			slog.String("error", err.Error()),
		)
		result.Error = err.Error()
		return result
	}

	result.TransactionID = transaction.TransactionID
	result.Succeeded = true
	s.metrics.IncrementCounter("auto_debit.processed", map[string]string{"status": "success"})
	s.recordAudit(autoDebit.CreatedBy, models.AuditActionAutoDebitProcessed, autoDebit)

	return result
}

func (s *autoDebitService) reportItemFailure(autoDebit *models.AutoDebit, reason string) {
	s.logger.Warn("auto debit failed",
		slog.String("auto_debit_id", autoDebit.ID.String()),
		slog.String("account_id", autoDebit.AccountID.String()),
		slog.String("reason", reason),
	)
	s.metrics.IncrementCounter("auto_debit.processed", map[string]string{"status": "failed"})
}

func (s *autoDebitService) recordAudit(actorID uuid.UUID, action string, autoDebit *models.AutoDebit) {
	entry := &models.AuditLog{
		UserID:     &actorID,
		Action:     action,
		Resource:   "auto_debit",
		ResourceID: autoDebit.ID.String(),
	}
	entry.SetMetadata("account_id", autoDebit.AccountID.String())
	entry.SetMetadata("amount", autoDebit.Amount.String())

	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
