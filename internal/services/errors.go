package services

import (
	"errors"

	apperrors "github.com/appdotbuilder/bank-account-manager/internal/errors"
	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountTypeNotFound = errors.New("account type not found")
	ErrHoldNotFound        = errors.New("hold not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAutoDebitNotFound   = errors.New("auto debit not found")
	ErrUnauthorized        = errors.New("not authorized to operate on this account")
	ErrAccountNotActive    = errors.New("account is not active")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrLimitExceeded       = errors.New("account limit exceeded")
	ErrInsufficientFunds   = errors.New("insufficient available balance")
	ErrAlreadyReleased     = errors.New("hold is no longer active")
	ErrInvalidExpiry       = errors.New("hold expiry must be in the future")
	ErrBelowMinimumBalance = errors.New("initial deposit below the minimum balance")
	ErrAccountTypeInactive = errors.New("account type is not available")
)

// ErrorCodeFor maps a failure surfaced by the services layer to its stable
// caller-facing code. Unknown errors map to the database code since every
// deliberate failure path has a sentinel.
func ErrorCodeFor(err error) apperrors.ErrorCode {
	switch {
	case errors.Is(err, models.ErrInvalidTransactionShape),
		errors.Is(err, models.ErrInvalidTransactionType):
		return apperrors.ValidationInvalidShape
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, models.ErrInvalidAmount):
		return apperrors.ValidationInvalidAmount
	case errors.Is(err, ErrUnauthorized):
		return apperrors.AuthUnauthorized
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrAccountTypeNotFound), errors.Is(err, ErrAutoDebitNotFound),
		errors.Is(err, ErrTransactionNotFound):
		return apperrors.AccountNotFound
	case errors.Is(err, ErrAccountNotActive):
		return apperrors.AccountNotActive
	case errors.Is(err, ErrInsufficientFunds):
		return apperrors.AccountInsufficientFunds
	case errors.Is(err, ErrLimitExceeded), errors.Is(err, ErrBelowMinimumBalance):
		return apperrors.AccountLimitExceeded
	case errors.Is(err, models.ErrInvalidStateTransition):
		return apperrors.AccountInvalidTransition
	case errors.Is(err, ErrHoldNotFound):
		return apperrors.HoldNotFound
	case errors.Is(err, ErrAlreadyReleased):
		return apperrors.HoldAlreadyReleased
	case errors.Is(err, ErrInvalidExpiry):
		return apperrors.ValidationGeneral
	case errors.Is(err, repositories.ErrIDGenerationExhausted):
		return apperrors.SystemIDGenerationExhausted
	case errors.Is(err, repositories.ErrLockTimeout):
		return apperrors.SystemLockTimeout
	default:
		return apperrors.SystemDatabaseError
	}
}
