package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	HoldStatusActive   = "active"
	HoldStatusReleased = "released"
	HoldStatusExpired  = "expired"
)

var (
	ErrInvalidHoldStatus = errors.New("invalid hold status")
	ErrInvalidHoldAmount = errors.New("hold amount must be positive")
	ErrHoldNotActive     = errors.New("hold is not active")
)

// Hold is a temporary reservation against an account that reduces the
// available balance while active. Expiry is evaluated lazily at read time;
// there is no background sweep.
type Hold struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Reason     string          `gorm:"type:text;not null" json:"reason"`
	ExpiresAt  *time.Time      `gorm:"index" json:"expires_at,omitempty"`
	Status     string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedBy  uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	ReleasedBy *uuid.UUID      `gorm:"type:uuid" json:"released_by,omitempty"`
	ReleasedAt *time.Time      `json:"released_at,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`

	// Associations
	Account  Account `gorm:"foreignKey:AccountID" json:"-"`
	Creator  User    `gorm:"foreignKey:CreatedBy" json:"-"`
	Releaser *User   `gorm:"foreignKey:ReleasedBy" json:"-"`
}

// BeforeCreate hook for Hold
func (h *Hold) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}

	if h.Status == "" {
		h.Status = HoldStatusActive
	}

	now := time.Now()
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	if h.UpdatedAt.IsZero() {
		h.UpdatedAt = now
	}

	return h.Validate()
}

// Validate validates the hold fields
func (h *Hold) Validate() error {
	if h.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}

	if h.CreatedBy == uuid.Nil {
		return errors.New("hold creator is required")
	}

	if h.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidHoldAmount
	}

	if h.Reason == "" {
		return errors.New("hold reason is required")
	}

	if !IsValidHoldStatus(h.Status) {
		return ErrInvalidHoldStatus
	}

	return nil
}

// IsActiveAt reports whether the hold counts against the available balance
// at the given instant: status active and not yet past its expiry.
func (h *Hold) IsActiveAt(now time.Time) bool {
	if h.Status != HoldStatusActive {
		return false
	}
	return h.ExpiresAt == nil || h.ExpiresAt.After(now)
}

// IsExpiredAt reports whether the hold is still marked active but its expiry
// has passed.
func (h *Hold) IsExpiredAt(now time.Time) bool {
	return h.Status == HoldStatusActive && h.ExpiresAt != nil && !h.ExpiresAt.After(now)
}

// Release marks the hold released by the given actor. Fails with
// ErrHoldNotActive unless the hold is currently active.
func (h *Hold) Release(releaser uuid.UUID, now time.Time) error {
	if h.Status != HoldStatusActive {
		return ErrHoldNotActive
	}

	h.Status = HoldStatusReleased
	h.ReleasedBy = &releaser
	h.ReleasedAt = &now
	return nil
}

// MarkExpired moves a lapsed hold to the expired status. Expiry is detected
// at read time; this only records the observation.
func (h *Hold) MarkExpired() error {
	if h.Status != HoldStatusActive {
		return ErrHoldNotActive
	}

	h.Status = HoldStatusExpired
	return nil
}

// TableName returns the table name for Hold
func (h *Hold) TableName() string {
	return "account_holds"
}

// IsValidHoldStatus checks if the hold status is valid
func IsValidHoldStatus(status string) bool {
	switch status {
	case HoldStatusActive, HoldStatusReleased, HoldStatusExpired:
		return true
	default:
		return false
	}
}
