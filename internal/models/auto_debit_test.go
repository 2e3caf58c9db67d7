package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAutoDebit_IsDue(t *testing.T) {
	today := date(2026, 6, 15)
	endBefore := date(2026, 6, 10)

	tests := []struct {
		name string
		ad   AutoDebit
		due  bool
	}{
		{"scheduled today", AutoDebit{IsActive: true, NextDebitDate: today}, true},
		{"overdue", AutoDebit{IsActive: true, NextDebitDate: date(2026, 6, 1)}, true},
		{"scheduled tomorrow", AutoDebit{IsActive: true, NextDebitDate: date(2026, 6, 16)}, false},
		{"inactive", AutoDebit{IsActive: false, NextDebitDate: today}, false},
		{"end date passed", AutoDebit{IsActive: true, NextDebitDate: today, EndDate: &endBefore}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, tt.ad.IsDue(today))
		})
	}
}

func TestAutoDebit_IsDue_IgnoresTimeOfDay(t *testing.T) {
	lateToday := time.Date(2026, 6, 15, 23, 50, 0, 0, time.UTC)
	ad := AutoDebit{IsActive: true, NextDebitDate: time.Date(2026, 6, 15, 8, 0, 0, 0, time.UTC)}

	assert.True(t, ad.IsDue(lateToday))
}

func TestAutoDebit_Advance(t *testing.T) {
	tests := []struct {
		frequency string
		next      time.Time
	}{
		{FrequencyDaily, date(2026, 6, 16)},
		{FrequencyWeekly, date(2026, 6, 22)},
		{FrequencyMonthly, date(2026, 7, 15)},
		{FrequencyYearly, date(2027, 6, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			ad := AutoDebit{
				IsActive:      true,
				Frequency:     tt.frequency,
				NextDebitDate: date(2026, 6, 15),
			}
			ad.Advance()
			assert.Equal(t, tt.next, ad.NextDebitDate)
			assert.True(t, ad.IsActive)
		})
	}
}

func TestAutoDebit_Advance_DeactivatesPastEndDate(t *testing.T) {
	end := date(2026, 6, 20)
	ad := AutoDebit{
		IsActive:      true,
		Frequency:     FrequencyWeekly,
		NextDebitDate: date(2026, 6, 15),
		EndDate:       &end,
	}

	ad.Advance()

	assert.Equal(t, date(2026, 6, 22), ad.NextDebitDate)
	assert.False(t, ad.IsActive)
}

func TestAutoDebit_Validate(t *testing.T) {
	valid := AutoDebit{
		AccountID:     uuid.New(),
		CreatedBy:     uuid.New(),
		Name:          "Rent",
		Amount:        decimal.NewFromInt(500),
		Frequency:     FrequencyMonthly,
		NextDebitDate: date(2026, 7, 1),
	}
	assert.NoError(t, valid.Validate())

	zeroAmount := valid
	zeroAmount.Amount = decimal.Zero
	assert.ErrorIs(t, zeroAmount.Validate(), ErrInvalidAutoDebitAmount)

	badFrequency := valid
	badFrequency.Frequency = "fortnightly"
	assert.ErrorIs(t, badFrequency.Validate(), ErrInvalidFrequency)

	endBeforeNext := valid
	end := date(2026, 6, 1)
	endBeforeNext.EndDate = &end
	assert.Error(t, endBeforeNext.Validate())
}
