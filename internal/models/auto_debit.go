package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

var (
	ErrInvalidFrequency       = errors.New("invalid auto debit frequency")
	ErrInvalidAutoDebitAmount = errors.New("auto debit amount must be positive")
)

// AutoDebit is a recurring scheduled debit owned by an account. On each
// successful run the next debit date advances by one frequency unit; a
// failed run leaves the date unchanged so the next scheduler invocation
// retries it.
type AutoDebit struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Name          string          `gorm:"type:varchar(100);not null" json:"name"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Frequency     string          `gorm:"type:varchar(20);not null" json:"frequency"`
	NextDebitDate time.Time       `gorm:"not null;index" json:"next_debit_date"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedBy     uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	Metadata      JSONBMap        `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
	Creator User    `gorm:"foreignKey:CreatedBy" json:"-"`
}

// BeforeCreate hook for AutoDebit
func (ad *AutoDebit) BeforeCreate(tx *gorm.DB) error {
	if ad.ID == uuid.Nil {
		ad.ID = uuid.New()
	}

	now := time.Now()
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = now
	}
	if ad.UpdatedAt.IsZero() {
		ad.UpdatedAt = now
	}

	return ad.Validate()
}

// Validate validates the auto debit fields
func (ad *AutoDebit) Validate() error {
	if ad.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if ad.CreatedBy == uuid.Nil {
		return errors.New("auto debit creator is required")
	}

	if ad.Name == "" {
		return errors.New("auto debit name is required")
	}

	if ad.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAutoDebitAmount
	}

	if !IsValidFrequency(ad.Frequency) {
		return ErrInvalidFrequency
	}

	if ad.NextDebitDate.IsZero() {
		return errors.New("next debit date is required")
	}

	if ad.EndDate != nil && ad.EndDate.Before(ad.NextDebitDate) {
		return errors.New("end date cannot precede next debit date")
	}

	return nil
}

// IsDue reports whether the auto debit should be processed on the given day:
// active, not past its end date, and scheduled on or before today.
func (ad *AutoDebit) IsDue(today time.Time) bool {
	if !ad.IsActive {
		return false
	}

	day := DateOnly(today)
	if ad.EndDate != nil && DateOnly(*ad.EndDate).Before(day) {
		return false
	}

	return !DateOnly(ad.NextDebitDate).After(day)
}

// Advance moves the next debit date forward by one frequency unit and
// deactivates the schedule once it runs past the end date.
func (ad *AutoDebit) Advance() {
	switch ad.Frequency {
	case FrequencyDaily:
		ad.NextDebitDate = ad.NextDebitDate.AddDate(0, 0, 1)
	case FrequencyWeekly:
		ad.NextDebitDate = ad.NextDebitDate.AddDate(0, 0, 7)
	case FrequencyMonthly:
		ad.NextDebitDate = ad.NextDebitDate.AddDate(0, 1, 0)
	case FrequencyYearly:
		ad.NextDebitDate = ad.NextDebitDate.AddDate(1, 0, 0)
	}

	if ad.EndDate != nil && DateOnly(ad.NextDebitDate).After(DateOnly(*ad.EndDate)) {
		ad.IsActive = false
	}
}

// Disable turns the schedule off explicitly
func (ad *AutoDebit) Disable() {
	ad.IsActive = false
}

// TableName returns the table name for AutoDebit
func (ad *AutoDebit) TableName() string {
	return "auto_debits"
}

// IsValidFrequency checks if the frequency is valid
func IsValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	default:
		return false
	}
}

// DateOnly truncates a timestamp to midnight UTC for date comparisons
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
