package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"active to dormant", AccountStatusActive, AccountStatusDormant, true},
		{"active to blocked", AccountStatusActive, AccountStatusBlocked, true},
		{"active to closed", AccountStatusActive, AccountStatusClosed, true},
		{"active to active", AccountStatusActive, AccountStatusActive, false},
		{"dormant to active", AccountStatusDormant, AccountStatusActive, true},
		{"dormant to closed", AccountStatusDormant, AccountStatusClosed, true},
		{"dormant to blocked", AccountStatusDormant, AccountStatusBlocked, false},
		{"blocked to active", AccountStatusBlocked, AccountStatusActive, true},
		{"blocked to closed", AccountStatusBlocked, AccountStatusClosed, true},
		{"blocked to dormant", AccountStatusBlocked, AccountStatusDormant, false},
		{"closed to active", AccountStatusClosed, AccountStatusActive, false},
		{"closed to dormant", AccountStatusClosed, AccountStatusDormant, false},
		{"closed to blocked", AccountStatusClosed, AccountStatusBlocked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := &Account{Status: tt.from}
			assert.Equal(t, tt.allowed, account.CanTransitionTo(tt.to))
		})
	}
}

func TestAccount_TransitionTo_MaintainsTimestamps(t *testing.T) {
	now := time.Now()
	account := &Account{Status: AccountStatusActive}

	require.NoError(t, account.TransitionTo(AccountStatusDormant, now))
	require.NotNil(t, account.DormantAt)
	assert.Equal(t, now, *account.DormantAt)

	require.NoError(t, account.TransitionTo(AccountStatusActive, now))
	assert.Nil(t, account.DormantAt)

	require.NoError(t, account.TransitionTo(AccountStatusClosed, now))
	require.NotNil(t, account.ClosedAt)
	assert.Equal(t, AccountStatusClosed, account.Status)
}

func TestAccount_TransitionTo_ClosedIsTerminal(t *testing.T) {
	now := time.Now()
	account := &Account{Status: AccountStatusClosed}

	for _, status := range []string{AccountStatusActive, AccountStatusDormant, AccountStatusBlocked} {
		err := account.TransitionTo(status, now)
		assert.ErrorIs(t, err, ErrInvalidStateTransition)
	}
	assert.Equal(t, AccountStatusClosed, account.Status)
}

func TestAccount_TransitionTo_RejectsUnknownStatus(t *testing.T) {
	account := &Account{Status: AccountStatusActive}
	err := account.TransitionTo("suspended", time.Now())
	assert.ErrorIs(t, err, ErrInvalidAccountStatus)
}

func TestAccount_InactiveSince(t *testing.T) {
	created := time.Now().Add(-48 * time.Hour)
	account := &Account{CreatedAt: created}

	assert.Equal(t, created, account.InactiveSince())

	activity := time.Now().Add(-1 * time.Hour)
	account.TouchActivity(activity)
	assert.Equal(t, activity, account.InactiveSince())
}

func TestGenerateAccountNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		number := GenerateAccountNumber()
		assert.True(t, ValidateAccountNumber(number), "generated number %q should be valid", number)
		assert.Len(t, number, AccountNumberLength)
	}
}

func TestGenerateAccountNumber_Dispersion(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		seen[GenerateAccountNumber()] = struct{}{}
	}

	// A handful of birthday collisions is expected in a 10M space; a
	// clustered generator would collapse far below this.
	assert.Greater(t, len(seen), 9900)
}

func TestValidateAccountNumber(t *testing.T) {
	tests := []struct {
		number string
		valid  bool
	}{
		{"ACC1234567", true},
		{"ACC0000001", true},
		{"ACC123456", false},
		{"ACC12345678", false},
		{"ABC1234567", false},
		{"ACC12345A7", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidateAccountNumber(tt.number), "number %q", tt.number)
	}
}
