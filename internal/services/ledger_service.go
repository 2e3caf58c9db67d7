package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService implements LedgerServiceInterface
type ledgerService struct {
	accountRepo     repositories.AccountRepositoryInterface
	accountTypeRepo repositories.AccountTypeRepositoryInterface
	holdRepo        repositories.HoldRepositoryInterface
	clock           Clock
	logger          *slog.Logger
}

// NewLedgerService creates a ledger service
func NewLedgerService(
	accountRepo repositories.AccountRepositoryInterface,
	accountTypeRepo repositories.AccountTypeRepositoryInterface,
	holdRepo repositories.HoldRepositoryInterface,
	clock Clock,
	logger *slog.Logger,
) LedgerServiceInterface {
	return &ledgerService{
		accountRepo:     accountRepo,
		accountTypeRepo: accountTypeRepo,
		holdRepo:        holdRepo,
		clock:           clock,
		logger:          logger,
	}
}

// AvailableBalance returns the spendable portion of the posted balance:
// max(0, balance - active hold total). Holds exceeding the balance clamp
// the result to zero rather than going negative.
func (s *ledgerService) AvailableBalance(accountID uuid.UUID) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return decimal.Zero, translateAccountError(err)
	}

	holdTotal, err := s.holdRepo.ActiveHoldTotal(accountID, s.clock.Now())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute hold total: %w", err)
	}

	return availableOf(account.Balance, holdTotal), nil
}

// ApplyDelta adjusts the posted balance by a signed amount and stamps the
// account's activity time. Withdrawals are checked against the available
// balance, deposits against the account type's maximum balance.
func (s *ledgerService) ApplyDelta(accountID uuid.UUID, delta decimal.Decimal) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if delta.IsNegative() {
		holdTotal, err := s.holdRepo.ActiveHoldTotal(accountID, s.clock.Now())
		if err != nil {
			return nil, fmt.Errorf("failed to compute hold total: %w", err)
		}
		if delta.Neg().GreaterThan(availableOf(account.Balance, holdTotal)) {
			return nil, ErrInsufficientFunds
		}
	} else if delta.IsPositive() {
		accountType, err := s.accountTypeRepo.GetByID(account.AccountTypeID)
		if err != nil {
			return nil, translateAccountError(err)
		}
		if accountType.ExceedsMaxBalance(account.Balance.Add(delta)) {
			return nil, ErrLimitExceeded
		}
	}

	account.Balance = account.Balance.Add(delta)
	account.TouchActivity(s.clock.Now())

	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to persist balance change: %w", err)
	}

	s.logger.Info("balance adjusted",
		slog.String("account_id", accountID.String()),
		slog.String("delta", delta.String()),
		slog.String("balance", account.Balance.String()),
	)

	return account, nil
}

// availableOf clamps balance minus holds at zero
func availableOf(balance, holdTotal decimal.Decimal) decimal.Decimal {
	available := balance.Sub(holdTotal)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}

// translateAccountError maps repository not-found sentinels onto the
// services layer's own.
func translateAccountError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrAccountNotFound):
		return ErrAccountNotFound
	case errors.Is(err, repositories.ErrAccountTypeNotFound):
		return ErrAccountTypeNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrHoldNotFound):
		return ErrHoldNotFound
	case errors.Is(err, repositories.ErrAutoDebitNotFound):
		return ErrAutoDebitNotFound
	default:
		return err
	}
}
