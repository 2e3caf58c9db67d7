package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdministrator = "administrator"
	RoleOperator      = "operator"
	RoleCustomer      = "customer"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// User represents a resolved actor identity. Authentication and session
// handling live outside this module; the core only consumes the role for
// authorization and query scoping.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string         `gorm:"type:varchar(100);not null" json:"last_name"`
	Role      string         `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Accounts  []Account  `gorm:"foreignKey:UserID" json:"-"`
	AuditLogs []AuditLog `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	// Set timestamps if not already set (for tests)
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}

	if !emailRegex.MatchString(u.Email) {
		return errors.New("invalid email format")
	}

	if u.FirstName == "" {
		return errors.New("first name is required")
	}

	if u.LastName == "" {
		return errors.New("last name is required")
	}

	if !IsValidRole(u.Role) {
		return fmt.Errorf("invalid role: %s", u.Role)
	}

	return nil
}

func (u *User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}

func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}

func (u *User) IsOperator() bool {
	return u.Role == RoleOperator
}

func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// CanManageAccounts reports whether the actor may create accounts, place and
// release holds, and change account status. Customers are restricted to
// transacting on their own accounts.
func (u *User) CanManageAccounts() bool {
	return u.Role == RoleAdministrator || u.Role == RoleOperator
}

// CanCloseAccounts reports whether the actor may move an account to the
// terminal closed state.
func (u *User) CanCloseAccounts() bool {
	return u.Role == RoleAdministrator
}

func (u *User) TableName() string {
	return "users"
}

// IsValidRole checks if the role is one of the closed set of role variants
func IsValidRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleOperator, RoleCustomer:
		return true
	default:
		return false
	}
}
