package services

import (
	"testing"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/database"
	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceSuite struct {
	suite.Suite
	f       *fixture
	staff   *models.User
	account *models.Account
}

func (s *LedgerServiceSuite) SetupTest() {
	s.f = newFixture(s.T())
	s.staff = database.CreateTestUser(s.T(), s.f.db, "operator@example.com", models.RoleOperator)

	customer := database.CreateTestUser(s.T(), s.f.db, "customer@example.com", models.RoleCustomer)
	accountType := database.CreateTestAccountType(s.T(), s.f.db, "Savings")
	s.account = database.CreateTestAccount(s.T(), s.f.db, customer, accountType, decimal.NewFromInt(1000))
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) placeHold(amount int64, expiresAt *time.Time) {
	hold := &models.Hold{
		AccountID: s.account.ID,
		Amount:    decimal.NewFromInt(amount),
		Reason:    "test",
		Status:    models.HoldStatusActive,
		ExpiresAt: expiresAt,
		CreatedBy: s.staff.ID,
	}
	s.Require().NoError(s.f.holdRepo.Create(hold))
}

func (s *LedgerServiceSuite) TestAvailableBalance_NoHolds() {
	available, err := s.f.ledger.AvailableBalance(s.account.ID)
	s.Require().NoError(err)
	s.True(available.Equal(decimal.NewFromInt(1000)))
}

func (s *LedgerServiceSuite) TestAvailableBalance_SubtractsActiveHolds() {
	s.placeHold(200, nil)

	available, err := s.f.ledger.AvailableBalance(s.account.ID)
	s.Require().NoError(err)
	s.True(available.Equal(decimal.NewFromInt(800)), "got %s", available)
}

func (s *LedgerServiceSuite) TestAvailableBalance_ClampsAtZero() {
	s.placeHold(1500, nil)

	available, err := s.f.ledger.AvailableBalance(s.account.ID)
	s.Require().NoError(err)
	s.True(available.IsZero())
}

func (s *LedgerServiceSuite) TestAvailableBalance_IgnoresLapsedHolds() {
	past := s.f.clock.now.Add(-time.Minute)
	s.placeHold(300, &past)

	available, err := s.f.ledger.AvailableBalance(s.account.ID)
	s.Require().NoError(err)
	s.True(available.Equal(decimal.NewFromInt(1000)))
}

func (s *LedgerServiceSuite) TestAvailableBalance_NotFound() {
	_, err := s.f.ledger.AvailableBalance(uuid.New())
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *LedgerServiceSuite) TestApplyDelta_Withdrawal() {
	account, err := s.f.ledger.ApplyDelta(s.account.ID, decimal.NewFromInt(-400))
	s.Require().NoError(err)
	s.True(account.Balance.Equal(decimal.NewFromInt(600)))
	s.Require().NotNil(account.LastActivityAt)
	s.True(account.LastActivityAt.Equal(s.f.clock.now))
}

func (s *LedgerServiceSuite) TestApplyDelta_WithdrawalBeyondAvailable() {
	s.placeHold(200, nil)

	_, err := s.f.ledger.ApplyDelta(s.account.ID, decimal.NewFromInt(-900))
	s.ErrorIs(err, ErrInsufficientFunds)

	// Exactly the available amount still works
	account, err := s.f.ledger.ApplyDelta(s.account.ID, decimal.NewFromInt(-800))
	s.Require().NoError(err)
	s.True(account.Balance.Equal(decimal.NewFromInt(200)))
}

func (s *LedgerServiceSuite) TestApplyDelta_DepositRespectsMaxBalance() {
	maxBalance := decimal.NewFromInt(1200)
	capped := &models.AccountType{
		Name:       "Capped",
		MaxBalance: &maxBalance,
		IsActive:   true,
	}
	s.Require().NoError(s.f.accountTypeRepo.Create(capped))

	owner := database.CreateTestUser(s.T(), s.f.db, "capped@example.com", models.RoleCustomer)
	account := database.CreateTestAccount(s.T(), s.f.db, owner, capped, decimal.NewFromInt(1000))

	_, err := s.f.ledger.ApplyDelta(account.ID, decimal.NewFromInt(300))
	s.ErrorIs(err, ErrLimitExceeded)

	updated, err := s.f.ledger.ApplyDelta(account.ID, decimal.NewFromInt(200))
	s.Require().NoError(err)
	s.True(updated.Balance.Equal(decimal.NewFromInt(1200)))
}
