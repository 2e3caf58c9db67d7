package models

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeDebit    = "debit"
	TransactionTypeCredit   = "credit"
	TransactionTypeTransfer = "transfer"

	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"

	// Transaction identifiers are "TXN" + yyyymmdd + six digits
	TransactionIDPrefix = "TXN"
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidTransactionShape  = errors.New("transaction accounts do not match its type")
	ErrInvalidAmount            = errors.New("transaction amount must be positive")
	ErrCompletedImmutable       = errors.New("completed transactions are immutable")
)

// Transaction is an immutable record of value movement. A debit has only a
// source account, a credit only a destination, a transfer both. Once
// completed it is append-only history and survives account closure.
type Transaction struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TransactionID string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"transaction_id"`
	FromAccountID *uuid.UUID      `gorm:"type:uuid;index" json:"from_account_id,omitempty"`
	ToAccountID   *uuid.UUID      `gorm:"type:uuid;index" json:"to_account_id,omitempty"`
	Type          string          `gorm:"type:varchar(20);not null" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Fee           decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"fee"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Reference     string          `gorm:"type:varchar(100);index" json:"reference,omitempty"`
	Status        string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`
	ProcessedBy   *uuid.UUID      `gorm:"type:uuid" json:"processed_by,omitempty"`
	Metadata      JSONBMap        `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	// Associations. Transactions reference accounts but are not owned by
	// them: history outlives closed accounts.
	FromAccount *Account `gorm:"foreignKey:FromAccountID" json:"-"`
	ToAccount   *Account `gorm:"foreignKey:ToAccountID" json:"-"`
	Processor   *User    `gorm:"foreignKey:ProcessedBy" json:"-"`
}

// BeforeCreate hook for Transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	if t.Status == "" {
		t.Status = TransactionStatusCompleted
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

// BeforeUpdate hook for Transaction
func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return t.Validate()
}

// Validate validates the transaction fields
func (t *Transaction) Validate() error {
	if t.TransactionID == "" {
		return errors.New("transaction ID is required")
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if !IsValidTransactionStatus(t.Status) {
		return ErrInvalidTransactionStatus
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if t.Fee.LessThan(decimal.Zero) {
		return errors.New("transaction fee cannot be negative")
	}

	return t.ValidateShape()
}

// ValidateShape enforces the type/account-presence invariant: debit requires
// a source and no destination, credit a destination and no source, transfer
// both with distinct accounts.
func (t *Transaction) ValidateShape() error {
	switch t.Type {
	case TransactionTypeDebit:
		if t.FromAccountID == nil || t.ToAccountID != nil {
			return ErrInvalidTransactionShape
		}
	case TransactionTypeCredit:
		if t.ToAccountID == nil || t.FromAccountID != nil {
			return ErrInvalidTransactionShape
		}
	case TransactionTypeTransfer:
		if t.FromAccountID == nil || t.ToAccountID == nil {
			return ErrInvalidTransactionShape
		}
		if *t.FromAccountID == *t.ToAccountID {
			return ErrInvalidTransactionShape
		}
	default:
		return ErrInvalidTransactionType
	}

	return nil
}

// IsCompleted returns true if the transaction is completed
func (t *Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}

// MovesFunds reports whether the transaction debits its source account.
func (t *Transaction) MovesFunds() bool {
	return t.Type == TransactionTypeDebit || t.Type == TransactionTypeTransfer
}

// ReceivesFunds reports whether the transaction credits its destination.
func (t *Transaction) ReceivesFunds() bool {
	return t.Type == TransactionTypeCredit || t.Type == TransactionTypeTransfer
}

// TotalDebitAmount returns the amount charged to the source account,
// including the fee. The fee is never applied to the destination.
func (t *Transaction) TotalDebitAmount() decimal.Decimal {
	return t.Amount.Add(t.Fee)
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// Helper functions

// IsValidTransactionType checks if the transaction type is valid
func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeDebit, TransactionTypeCredit, TransactionTypeTransfer:
		return true
	default:
		return false
	}
}

// IsValidTransactionStatus checks if the transaction status is valid
func IsValidTransactionStatus(status string) bool {
	switch status {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	default:
		return false
	}
}

// GenerateTransactionID generates a candidate transaction identifier in the
// form TXN + yyyymmdd + six digits. Uniqueness is enforced by the
// repository, which regenerates on collision.
func GenerateTransactionID(now time.Time) string {
	return fmt.Sprintf("%s%s%06d", TransactionIDPrefix, now.Format("20060102"), rand.Intn(900000)+100000)
}

// ValidateTransactionID validates a transaction identifier format
func ValidateTransactionID(id string) bool {
	if len(id) != len(TransactionIDPrefix)+8+6 {
		return false
	}

	if id[:3] != TransactionIDPrefix {
		return false
	}

	if _, err := time.Parse("20060102", id[3:11]); err != nil {
		return false
	}

	for _, char := range id[11:] {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}
