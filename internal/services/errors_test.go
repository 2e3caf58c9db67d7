package services

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/appdotbuilder/bank-account-manager/internal/errors"
	"github.com/appdotbuilder/bank-account-manager/internal/models"
	"github.com/appdotbuilder/bank-account-manager/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		code apperrors.ErrorCode
	}{
		{models.ErrInvalidTransactionShape, apperrors.ValidationInvalidShape},
		{models.ErrInvalidTransactionType, apperrors.ValidationInvalidShape},
		{ErrInvalidAmount, apperrors.ValidationInvalidAmount},
		{models.ErrInvalidAmount, apperrors.ValidationInvalidAmount},
		{ErrUnauthorized, apperrors.AuthUnauthorized},
		{ErrAccountNotFound, apperrors.AccountNotFound},
		{ErrUserNotFound, apperrors.AccountNotFound},
		{ErrTransactionNotFound, apperrors.AccountNotFound},
		{ErrAccountNotActive, apperrors.AccountNotActive},
		{ErrInsufficientFunds, apperrors.AccountInsufficientFunds},
		{ErrLimitExceeded, apperrors.AccountLimitExceeded},
		{ErrBelowMinimumBalance, apperrors.AccountLimitExceeded},
		{models.ErrInvalidStateTransition, apperrors.AccountInvalidTransition},
		{ErrHoldNotFound, apperrors.HoldNotFound},
		{ErrAlreadyReleased, apperrors.HoldAlreadyReleased},
		{ErrInvalidExpiry, apperrors.ValidationGeneral},
		{repositories.ErrIDGenerationExhausted, apperrors.SystemIDGenerationExhausted},
		{repositories.ErrLockTimeout, apperrors.SystemLockTimeout},
		{errors.New("driver: connection reset"), apperrors.SystemDatabaseError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code)+"/"+tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, ErrorCodeFor(tt.err))
		})
	}
}

func TestErrorCodeFor_WrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("submitting transaction: %w", ErrInsufficientFunds)
	assert.Equal(t, apperrors.AccountInsufficientFunds, ErrorCodeFor(wrapped))

	deeply := fmt.Errorf("scheduler: %w", fmt.Errorf("item failed: %w", repositories.ErrLockTimeout))
	assert.Equal(t, apperrors.SystemLockTimeout, ErrorCodeFor(deeply))
}
