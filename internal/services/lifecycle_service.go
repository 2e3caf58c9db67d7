package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"

	"github.com/google/uuid"
)

// lifecycleService implements LifecycleServiceInterface
type lifecycleService struct {
	accountRepo     repositories.AccountRepositoryInterface
	accountTypeRepo repositories.AccountTypeRepositoryInterface
	auditRepo       repositories.AuditLogRepositoryInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	clock           Clock
	logger          *slog.Logger
}

// NewLifecycleService creates a lifecycle service
func NewLifecycleService(
	accountRepo repositories.AccountRepositoryInterface,
	accountTypeRepo repositories.AccountTypeRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	clock Clock,
	logger *slog.Logger,
) LifecycleServiceInterface {
	return &lifecycleService{
		accountRepo:     accountRepo,
		accountTypeRepo: accountTypeRepo,
		auditRepo:       auditRepo,
		auditLogger:     auditLogger,
		metrics:         metrics,
		clock:           clock,
		logger:          logger,
	}
}

// SetStatus performs an explicit status transition. Blocking and unblocking
// are staff operations; closing an account takes an administrator. The
// transition table is authoritative: closed accounts never move again.
func (s *lifecycleService) SetStatus(actor *models.User, accountID uuid.UUID, newStatus, reason string) (*models.Account, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}

	switch newStatus {
	case models.AccountStatusClosed:
		if !actor.CanCloseAccounts() {
			return nil, ErrUnauthorized
		}
	default:
		if !actor.CanManageAccounts() {
			return nil, ErrUnauthorized
		}
	}

	account, err := s.accountRepo.GetByID(accountID)
	if err != nil {
		return nil, translateAccountError(err)
	}

	oldStatus := account.Status
	if err := account.TransitionTo(newStatus, s.clock.Now()); err != nil {
		return nil, err
	}

	if reason != "" {
		account.Notes = reason
	}

	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	s.auditLogger.LogStatusChanged(context.Background(), accountID, oldStatus, newStatus, reason)
	s.metrics.IncrementCounter("account.status_changed", map[string]string{"to": newStatus})
	s.recordAudit(&actor.ID, accountID, oldStatus, newStatus, reason)

	return account, nil
}

// MarkDormantAccounts sweeps active accounts and transitions any whose
// inactivity window has elapsed. Account types without a dormancy window
// never go dormant. One account's failure does not stop the sweep.
func (s *lifecycleService) MarkDormantAccounts() ([]uuid.UUID, error) {
	accounts, err := s.accountRepo.GetByStatus(models.AccountStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to load active accounts: %w", err)
	}

	typeIDs := make([]uuid.UUID, 0, len(accounts))
	for i := range accounts {
		typeIDs = append(typeIDs, accounts[i].AccountTypeID)
	}

	accountTypes, err := s.accountTypeRepo.GetByIDs(typeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load account types: %w", err)
	}

	now := s.clock.Now()
	var marked []uuid.UUID

	for i := range accounts {
		account := &accounts[i]

		accountType, ok := accountTypes[account.AccountTypeID]
		if !ok || accountType.DormantAfterDays == nil {
			continue
		}

		idleDays := int(now.Sub(account.InactiveSince()).Hours() / 24)
		if idleDays < *accountType.DormantAfterDays {
			continue
		}

		oldStatus := account.Status
		if err := account.TransitionTo(models.AccountStatusDormant, now); err != nil {
			s.logger.Warn("dormancy transition rejected",
				slog.String("account_id", account.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := s.accountRepo.Update(account); err != nil {
			s.logger.Warn("failed to persist dormancy transition",
				slog.String("account_id", account.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		s.recordAudit(nil, account.ID, oldStatus, models.AccountStatusDormant, "inactivity window elapsed")
		marked = append(marked, account.ID)
	}

	s.auditLogger.LogDormancySweep(context.Background(), len(marked))
	s.metrics.RecordGauge("accounts.marked_dormant", float64(len(marked)), nil)

	return marked, nil
}

func (s *lifecycleService) recordAudit(actorID *uuid.UUID, accountID uuid.UUID, oldStatus, newStatus, reason string) {
	entry := &models.AuditLog{
		UserID:     actorID,
		Action:     models.AuditActionStatusChanged,
		Resource:   "account",
		ResourceID: accountID.String(),
	}
	entry.SetMetadata("old_status", oldStatus)
	entry.SetMetadata("new_status", newStatus)
	if reason != "" {
		entry.SetMetadata("reason", reason)
	}

	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			slog.String("action", models.AuditActionStatusChanged),
			slog.String("error", err.Error()),
		)
	}
}
