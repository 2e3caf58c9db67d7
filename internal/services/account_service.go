package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements AccountServiceInterface
type accountService struct {
	accountRepo     repositories.AccountRepositoryInterface
	accountTypeRepo repositories.AccountTypeRepositoryInterface
	userRepo        repositories.UserRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	clock           Clock
	logger          *slog.Logger
}

// NewAccountService creates an account service
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	accountTypeRepo repositories.AccountTypeRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	clock Clock,
	logger *slog.Logger,
) AccountServiceInterface {
	return &accountService{
		accountRepo:     accountRepo,
		accountTypeRepo: accountTypeRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		auditRepo:       auditRepo,
		auditLogger:     auditLogger,
		metrics:         metrics,
		clock:           clock,
		logger:          logger,
	}
}

// CreateAccount provisions an account for a customer. Only staff open
// accounts. The initial deposit must meet the account type's minimum
// balance; when positive it is recorded as the account's first credit so the
// opening balance has a paper trail.
func (s *accountService) CreateAccount(actor *models.User, ownerID, accountTypeID uuid.UUID, initialDeposit decimal.Decimal) (*models.Account, error) {
	if actor == nil || !actor.CanManageAccounts() {
		return nil, ErrUnauthorized
	}

	owner, err := s.userRepo.GetByID(ownerID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	accountType, err := s.accountTypeRepo.GetByID(accountTypeID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if !accountType.IsActive {
		return nil, ErrAccountTypeInactive
	}

	if initialDeposit.IsNegative() {
		return nil, ErrInvalidAmount
	}

	if initialDeposit.LessThan(accountType.MinBalance) {
		return nil, ErrBelowMinimumBalance
	}

	if accountType.ExceedsMaxBalance(initialDeposit) {
		return nil, ErrLimitExceeded
	}

	accountNumber, err := s.accountRepo.GenerateUniqueAccountNumber()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &models.Account{
		AccountNumber:  accountNumber,
		UserID:         owner.ID,
		AccountTypeID:  accountType.ID,
		Balance:        initialDeposit,
		Status:         models.AccountStatusActive,
		LastActivityAt: &now,
	}

	var transactions []models.Transaction
	if initialDeposit.GreaterThan(decimal.Zero) {
		transactionID, err := s.transactionRepo.GenerateUniqueTransactionID(now)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, models.Transaction{
			TransactionID: transactionID,
			Type:          models.TransactionTypeCredit,
			Amount:        initialDeposit,
			Description:   "Initial deposit",
			Status:        models.TransactionStatusCompleted,
			ProcessedBy:   &actor.ID,
		})
	}

	if err := s.accountRepo.CreateWithTransaction(account, transactions); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.auditLogger.LogAccountCreated(context.Background(), account.ID, account.AccountNumber, actor.ID)
	s.metrics.IncrementCounter("account.created", map[string]string{"type": accountType.Name})
	s.recordAudit(actor, account)

	return account, nil
}

// GetAccount retrieves an account. Customers may only see their own.
func (s *accountService) GetAccount(actor *models.User, accountID uuid.UUID) (*models.Account, error) {
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

	return account, nil
}

// GetAccountsForUser lists a user's accounts. Customers may only list their
// own.
func (s *accountService) GetAccountsForUser(actor *models.User, userID uuid.UUID) ([]models.Account, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	if actor.IsCustomer() && userID != actor.ID {
		return nil, ErrUnauthorized
	}

	return s.accountRepo.GetByUserID(userID)
}

func (s *accountService) recordAudit(actor *models.User, account *models.Account) {
	entry := &models.AuditLog{
		UserID:     &actor.ID,
		Action:     models.AuditActionAccountCreated,
		Resource:   "account",
		ResourceID: account.ID.String(),
	}
	entry.SetMetadata("account_number", account.AccountNumber)
	entry.SetMetadata("owner_id", account.UserID.String())

	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			slog.String("action", models.AuditActionAccountCreated),
			slog.String("error", err.Error()),
		)
	}
}
