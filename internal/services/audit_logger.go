package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogAccountCreated(ctx context.Context, accountID uuid.UUID, accountNumber string, createdBy uuid.UUID) {
	al.logger.InfoContext(ctx, "account created",
		slog.String("event_type", "account_created"),
		slog.String("account_id", accountID.String()),
		slog.String("account_number", accountNumber),
		slog.String("created_by", createdBy.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogStatusChanged(ctx context.Context, accountID uuid.UUID, oldStatus, newStatus, reason string) {
	al.logger.InfoContext(ctx, "account status change",
		slog.String("event_type", "account_status_change"),
		slog.String("account_id", accountID.String()),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionCompleted(ctx context.Context, transactionID, transactionType string, amount string, durationMs int64) {
	al.logger.InfoContext(ctx, "transaction completed",
		slog.String("event_type", "transaction_completed"),
		slog.String("transaction_id", transactionID),
		slog.String("transaction_type", transactionType),
		slog.String("amount", amount),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionFailed(ctx context.Context, transactionType, reason string) {
	al.logger.WarnContext(ctx, "transaction failed",
		slog.String("event_type", "transaction_failed"),
		slog.String("transaction_type", transactionType),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogHoldPlaced(ctx context.Context, holdID, accountID uuid.UUID, amount string) {
	al.logger.InfoContext(ctx, "hold placed",
		slog.String("event_type", "hold_placed"),
		slog.String("hold_id", holdID.String()),
		slog.String("account_id", accountID.String()),
		slog.String("amount", amount),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogHoldReleased(ctx context.Context, holdID, accountID uuid.UUID) {
	al.logger.InfoContext(ctx, "hold released",
		slog.String("event_type", "hold_released"),
		slog.String("hold_id", holdID.String()),
		slog.String("account_id", accountID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogDormancySweep(ctx context.Context, marked int) {
	al.logger.InfoContext(ctx, "dormancy sweep completed",
		slog.String("event_type", "dormancy_sweep"),
		slog.Int("accounts_marked", marked),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogAutoDebitRun(ctx context.Context, processed, failed int, durationMs int64) {
	al.logger.InfoContext(ctx, "auto debit run completed",
		slog.String("event_type", "auto_debit_run"),
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value("correlation_id").(string); ok {
		return correlationID
	}

	if requestID, ok := ctx.Value("request_id").(string); ok {
		return requestID
	}

	return ""
}
