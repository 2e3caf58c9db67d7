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
	AccountStatusActive  = "active"
	AccountStatusBlocked = "blocked"
	AccountStatusDormant = "dormant"
	AccountStatusClosed  = "closed"

	// Account numbers are "ACC" followed by seven digits
	AccountNumberPrefix = "ACC"
	AccountNumberLength = 10
)

var (
	ErrInvalidAccountStatus   = errors.New("invalid account status")
	ErrInvalidBalance         = errors.New("balance cannot be negative")
	ErrInvalidStateTransition = errors.New("invalid account state transition")
)

// Account represents a bank account. Balance is mutated only by the
// transaction processor inside a locked scope; status only by the lifecycle
// service.
type Account struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountNumber  string          `gorm:"type:varchar(10);uniqueIndex;not null" json:"account_number"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountTypeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_type_id"`
	Balance        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Status         string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastActivityAt *time.Time      `gorm:"index" json:"last_activity_at,omitempty"`
	DormantAt      *time.Time      `json:"dormant_at,omitempty"`
	ClosedAt       *time.Time      `gorm:"index" json:"closed_at,omitempty"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	AccountType AccountType `gorm:"foreignKey:AccountTypeID" json:"-"`
	Holds       []Hold      `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
	AutoDebits  []AutoDebit `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"-"`
}

// accountStatusTransitions is the closed set of valid status transitions.
// closed is terminal.
var accountStatusTransitions = map[string][]string{
	AccountStatusActive:  {AccountStatusDormant, AccountStatusBlocked, AccountStatusClosed},
	AccountStatusDormant: {AccountStatusActive, AccountStatusClosed},
	AccountStatusBlocked: {AccountStatusActive, AccountStatusClosed},
	AccountStatusClosed:  {},
}

// BeforeCreate hook for Account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if a.Status == "" {
		a.Status = AccountStatusActive
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

// BeforeUpdate hook for Account
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

// Validate validates the account fields
func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if a.AccountTypeID == uuid.Nil {
		return errors.New("account type ID is required")
	}

	if a.AccountNumber == "" {
		return errors.New("account number is required")
	}

	if !ValidateAccountNumber(a.AccountNumber) {
		return fmt.Errorf("malformed account number: %s", a.AccountNumber)
	}

	if !IsValidAccountStatus(a.Status) {
		return ErrInvalidAccountStatus
	}

	if a.Balance.LessThan(decimal.Zero) {
		return ErrInvalidBalance
	}

	return nil
}

// IsActive returns true if the account is active
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// IsDormant returns true if the account is dormant
func (a *Account) IsDormant() bool {
	return a.Status == AccountStatusDormant
}

// IsClosed returns true if the account has reached the terminal closed state
func (a *Account) IsClosed() bool {
	return a.Status == AccountStatusClosed
}

// CanTransitionTo checks whether a status transition is valid
func (a *Account) CanTransitionTo(newStatus string) bool {
	allowed, exists := accountStatusTransitions[a.Status]
	if !exists {
		return false
	}

	for _, status := range allowed {
		if status == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the account to newStatus, maintaining the dormant and
// closed timestamps. Fails with ErrInvalidStateTransition for any move
// outside the transition table.
func (a *Account) TransitionTo(newStatus string, now time.Time) error {
	if !IsValidAccountStatus(newStatus) {
		return ErrInvalidAccountStatus
	}

	if !a.CanTransitionTo(newStatus) {
		return ErrInvalidStateTransition
	}

	switch newStatus {
	case AccountStatusDormant:
		a.DormantAt = &now
	case AccountStatusActive:
		a.DormantAt = nil
	case AccountStatusClosed:
		a.ClosedAt = &now
	}

	a.Status = newStatus
	return nil
}

// TouchActivity updates the last activity timestamp
func (a *Account) TouchActivity(now time.Time) {
	a.LastActivityAt = &now
}

// InactiveSince returns the reference point for dormancy evaluation: the last
// activity timestamp, falling back to creation time for accounts that never
// transacted.
func (a *Account) InactiveSince() time.Time {
	if a.LastActivityAt != nil {
		return *a.LastActivityAt
	}
	return a.CreatedAt
}

// TableName returns the table name for Account
func (a *Account) TableName() string {
	return "accounts"
}

// Helper functions

// IsValidAccountStatus checks if the account status is valid
func IsValidAccountStatus(status string) bool {
	switch status {
	case AccountStatusActive, AccountStatusBlocked, AccountStatusDormant, AccountStatusClosed:
		return true
	default:
		return false
	}
}

// GenerateAccountNumber generates a candidate account number in the form
// ACC followed by seven digits. Uniqueness is enforced by the repository,
// which checks the candidate against existing rows and regenerates on
// collision.
func GenerateAccountNumber() string {
	return fmt.Sprintf("%s%07d", AccountNumberPrefix, rand.Intn(9000000)+1000000)
}

// ValidateAccountNumber validates an account number format
func ValidateAccountNumber(accountNumber string) bool {
	if len(accountNumber) != AccountNumberLength {
		return false
	}

	if accountNumber[:3] != AccountNumberPrefix {
		return false
	}

	for _, char := range accountNumber[3:] {
		if char < '0' || char > '9' {
			return false
		}
	}

	return true
}
