package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountType is read-only reference data for the core: balance floors and
// ceilings, transaction limits, and dormancy policy for accounts of this
// type. It is never mutated during transaction validation.
type AccountType struct {
	ID                    uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name                  string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description           string           `gorm:"type:text" json:"description,omitempty"`
	MinBalance            decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"min_balance"`
	MaxBalance            *decimal.Decimal `gorm:"type:decimal(15,2)" json:"max_balance,omitempty"`
	PerTransactionLimit   *decimal.Decimal `gorm:"type:decimal(15,2)" json:"per_transaction_limit,omitempty"`
	DailyTransactionLimit *decimal.Decimal `gorm:"type:decimal(15,2)" json:"daily_transaction_limit,omitempty"`
	DormantAfterDays      *int             `json:"dormant_after_days,omitempty"`
	ReactivateOnCredit    bool             `gorm:"not null;default:true" json:"reactivate_on_credit"`
	AutoCloseAfterDays    *int             `json:"auto_close_after_days,omitempty"`
	IsActive              bool             `gorm:"not null;default:true" json:"is_active"`
	CreatedAt             time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time        `gorm:"not null" json:"updated_at"`

	Accounts []Account `gorm:"foreignKey:AccountTypeID" json:"-"`
}

func (at *AccountType) BeforeCreate(tx *gorm.DB) error {
	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}

	now := time.Now()
	if at.CreatedAt.IsZero() {
		at.CreatedAt = now
	}
	if at.UpdatedAt.IsZero() {
		at.UpdatedAt = now
	}

	return at.Validate()
}

func (at *AccountType) Validate() error {
	if at.Name == "" {
		return errors.New("account type name is required")
	}

	if at.MinBalance.LessThan(decimal.Zero) {
		return errors.New("minimum balance cannot be negative")
	}

	if at.MaxBalance != nil && at.MaxBalance.LessThan(at.MinBalance) {
		return errors.New("maximum balance cannot be below minimum balance")
	}

	if at.PerTransactionLimit != nil && at.PerTransactionLimit.LessThanOrEqual(decimal.Zero) {
		return errors.New("per-transaction limit must be positive")
	}

	if at.DormantAfterDays != nil && *at.DormantAfterDays <= 0 {
		return errors.New("dormancy threshold must be positive")
	}

	return nil
}

// ExceedsPerTransactionLimit reports whether amount violates the configured
// per-transaction ceiling. Types without a limit never match.
func (at *AccountType) ExceedsPerTransactionLimit(amount decimal.Decimal) bool {
	return at.PerTransactionLimit != nil && amount.GreaterThan(*at.PerTransactionLimit)
}

// ExceedsMaxBalance reports whether balance violates the configured balance
// ceiling. Types without a ceiling never match.
func (at *AccountType) ExceedsMaxBalance(balance decimal.Decimal) bool {
	return at.MaxBalance != nil && balance.GreaterThan(*at.MaxBalance)
}

func (at *AccountType) TableName() string {
	return "account_types"
}
