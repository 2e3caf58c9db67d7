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
)

// holdService implements HoldServiceInterface
type holdService struct {
	accountRepo repositories.AccountRepositoryInterface
	holdRepo    repositories.HoldRepositoryInterface
	auditRepo   repositories.AuditLogRepositoryInterface
	auditLogger AuditLoggerInterface
	metrics     MetricsRecorderInterface
	clock       Clock
	logger      *slog.Logger
}

// NewHoldService creates a hold service
func NewHoldService(
	accountRepo repositories.AccountRepositoryInterface,
	holdRepo repositories.HoldRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	clock Clock,
	logger *slog.Logger,
) HoldServiceInterface {
	return &holdService{
		accountRepo: accountRepo,
		holdRepo:    holdRepo,
		auditRepo:   auditRepo,
		auditLogger: auditLogger,
		metrics:     metrics,
		clock:       clock,
		logger:      logger,
	}
}

// PlaceHold reserves an amount against an account. The amount may exceed the
// available balance; an oversized hold simply pins availability at zero.
func (s *holdService) PlaceHold(actor *models.User, accountID uuid.UUID, amount decimal.Decimal, reason string, expiresAt *time.Time) (*models.Hold, error) {
	if actor == nil || !actor.CanManageAccounts() {
		return nil, ErrUnauthorized
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if account.IsClosed() {
		return nil, ErrAccountNotActive
	}

	if expiresAt != nil && !expiresAt.After(s.clock.Now()) {
		return nil, ErrInvalidExpiry
	}

	hold := &models.Hold{
		AccountID: accountID,
		Amount:    amount,
		Reason:    reason,
		ExpiresAt: expiresAt,
		Status:    models.HoldStatusActive,
		CreatedBy: actor.ID,
	}

	if err := s.holdRepo.Create(hold); err != nil {
		return nil, fmt.Errorf("failed to place hold: %w", err)
	}

	s.auditLogger.LogHoldPlaced(context.Background(), hold.ID, accountID, amount.String())
	s.metrics.IncrementCounter("hold.placed", nil)
	s.recordAudit(actor, models.AuditActionHoldPlaced, hold)

	return hold, nil
}

// ReleaseHold releases an active hold, restoring its amount to the available
// balance. Releasing a released or expired hold fails.
func (s *holdService) ReleaseHold(actor *models.User, holdID uuid.UUID) (*models.Hold, error) {
	if actor == nil || !actor.CanManageAccounts() {
		return nil, ErrUnauthorized
	}

	hold, err := s.holdRepo.GetByID(holdID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	now := s.clock.Now()

	// A lapsed hold is already off the books even if its stored status has
	// not been stamped yet.
	if hold.IsExpiredAt(now) {
		if err := hold.MarkExpired(); err == nil {
			_ = s.holdRepo.Update(hold)
		}
		return nil, ErrAlreadyReleased
	}

	if err := hold.Release(actor.ID, now); err != nil {
		if errors.Is(err, models.ErrHoldNotActive) {
			return nil, ErrAlreadyReleased
		}
		return nil, err
	}

	if err := s.holdRepo.Update(hold); err != nil {
		return nil, fmt.Errorf("failed to release hold: %w", err)
	}

	s.auditLogger.LogHoldReleased(context.Background(), hold.ID, hold.AccountID)
	s.metrics.IncrementCounter("hold.released", nil)
	s.recordAudit(actor, models.AuditActionHoldReleased, hold)

	return hold, nil
}

// ActiveHoldTotal sums the account's currently effective holds
func (s *holdService) ActiveHoldTotal(accountID uuid.UUID) (decimal.Decimal, error) {
	return s.holdRepo.ActiveHoldTotal(accountID, s.clock.Now())
}

// GetHoldsForAccount lists an account's holds. Customers may only see holds
// on their own accounts.
func (s *holdService) GetHoldsForAccount(actor *models.User, accountID uuid.UUID) ([]models.Hold, error) {
	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	if actor == nil || (actor.IsCustomer() && account.UserID != actor.ID) {
		return nil, ErrUnauthorized
	}

	return s.holdRepo.GetByAccountID(accountID)
}

func (s *holdService) recordAudit(actor *models.User, action string, hold *models.Hold) {
	entry := &models.AuditLog{
		UserID:     &actor.ID,
		Action:     action,
		Resource:   "hold",
		ResourceID: hold.ID.String(),
	}
	entry.SetMetadata("account_id", hold.AccountID.String())
	entry.SetMetadata("amount", hold.Amount.String())

	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
