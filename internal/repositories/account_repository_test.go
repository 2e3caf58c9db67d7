package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/database"
	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type AccountRepositorySuite struct {
	suite.Suite
	db          *database.DB
	repo        AccountRepositoryInterface
	user        *models.User
	accountType *models.AccountType
}

func (s *AccountRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAccountRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "customer@example.com", models.RoleCustomer)
	s.accountType = database.CreateTestAccountType(s.T(), s.db, "Savings")
}

func TestAccountRepositorySuite(t *testing.T) {
	suite.Run(t, new(AccountRepositorySuite))
}

func (s *AccountRepositorySuite) newAccount(balance int64) *models.Account {
	return &models.Account{
		AccountNumber: models.GenerateAccountNumber(),
		UserID:        s.user.ID,
		AccountTypeID: s.accountType.ID,
		Balance:       decimal.NewFromInt(balance),
		Status:        models.AccountStatusActive,
	}
}

func (s *AccountRepositorySuite) TestCreateAndGetByID() {
	account := s.newAccount(1000)
	s.Require().NoError(s.repo.Create(account))

	found, err := s.repo.GetByID(account.ID)
	s.Require().NoError(err)
	s.Equal(account.AccountNumber, found.AccountNumber)
	s.True(found.Balance.Equal(decimal.NewFromInt(1000)))
}

func (s *AccountRepositorySuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(uuid.New())
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *AccountRepositorySuite) TestGetByAccountNumber() {
	account := s.newAccount(500)
	s.Require().NoError(s.repo.Create(account))

	found, err := s.repo.GetByAccountNumber(account.AccountNumber)
	s.Require().NoError(err)
	s.Equal(account.ID, found.ID)

	_, err = s.repo.GetByAccountNumber("ACC0000000")
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *AccountRepositorySuite) TestGetByUserID() {
	s.Require().NoError(s.repo.Create(s.newAccount(100)))
	s.Require().NoError(s.repo.Create(s.newAccount(200)))

	accounts, err := s.repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Len(accounts, 2)
}

func (s *AccountRepositorySuite) TestGetByStatus() {
	active := s.newAccount(100)
	s.Require().NoError(s.repo.Create(active))

	dormant := s.newAccount(200)
	dormant.Status = models.AccountStatusDormant
	s.Require().NoError(s.repo.Create(dormant))

	found, err := s.repo.GetByStatus(models.AccountStatusDormant)
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Equal(dormant.ID, found[0].ID)
}

func (s *AccountRepositorySuite) TestGenerateUniqueAccountNumber() {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		number, err := s.repo.GenerateUniqueAccountNumber()
		s.Require().NoError(err)
		s.True(models.ValidateAccountNumber(number))
		s.False(seen[number], "generated duplicate %s", number)
		seen[number] = true

		account := s.newAccount(0)
		account.AccountNumber = number
		s.Require().NoError(s.repo.Create(account))
	}
}

func (s *AccountRepositorySuite) TestCreateWithTransaction_RecordsOpeningCredit() {
	account := s.newAccount(250)
	transactions := []models.Transaction{
		{
			TransactionID: models.GenerateTransactionID(time.Now()),
			Type:          models.TransactionTypeCredit,
			Amount:        decimal.NewFromInt(250),
			Description:   "Initial deposit",
			Status:        models.TransactionStatusCompleted,
		},
	}

	s.Require().NoError(s.repo.CreateWithTransaction(account, transactions))

	var stored models.Transaction
	s.Require().NoError(s.db.Where("to_account_id = ?", account.ID).First(&stored).Error)
	s.True(stored.Amount.Equal(decimal.NewFromInt(250)))
	s.Equal(models.TransactionTypeCredit, stored.Type)
}

func (s *AccountRepositorySuite) TestWithAccountsLocked_AppliesChangesAtomically() {
	a := s.newAccount(1000)
	b := s.newAccount(0)
	s.Require().NoError(s.repo.Create(a))
	s.Require().NoError(s.repo.Create(b))

	err := s.repo.WithAccountsLocked(context.Background(), []uuid.UUID{a.ID, b.ID}, time.Second,
		func(tx *gorm.DB, locked map[uuid.UUID]*models.Account) error {
			s.Len(locked, 2)

			locked[a.ID].Balance = locked[a.ID].Balance.Sub(decimal.NewFromInt(300))
			locked[b.ID].Balance = locked[b.ID].Balance.Add(decimal.NewFromInt(300))

			if err := tx.Save(locked[a.ID]).Error; err != nil {
				return err
			}
			return tx.Save(locked[b.ID]).Error
		})
	s.Require().NoError(err)

	reloadedA, err := s.repo.GetByID(a.ID)
	s.Require().NoError(err)
	reloadedB, err := s.repo.GetByID(b.ID)
	s.Require().NoError(err)
	s.True(reloadedA.Balance.Equal(decimal.NewFromInt(700)))
	s.True(reloadedB.Balance.Equal(decimal.NewFromInt(300)))
}

func (s *AccountRepositorySuite) TestWithAccountsLocked_RollsBackOnError() {
	a := s.newAccount(1000)
	s.Require().NoError(s.repo.Create(a))

	err := s.repo.WithAccountsLocked(context.Background(), []uuid.UUID{a.ID}, time.Second,
		func(tx *gorm.DB, locked map[uuid.UUID]*models.Account) error {
			locked[a.ID].Balance = decimal.Zero
			if err := tx.Save(locked[a.ID]).Error; err != nil {
				return err
			}
			return ErrLockTimeout
		})
	s.ErrorIs(err, ErrLockTimeout)

	reloaded, err := s.repo.GetByID(a.ID)
	s.Require().NoError(err)
	s.True(reloaded.Balance.Equal(decimal.NewFromInt(1000)), "rollback should restore the balance")
}

func (s *AccountRepositorySuite) TestWithAccountsLocked_MissingAccount() {
	err := s.repo.WithAccountsLocked(context.Background(), []uuid.UUID{uuid.New()}, time.Second,
		func(tx *gorm.DB, locked map[uuid.UUID]*models.Account) error {
			return nil
		})
	s.ErrorIs(err, ErrAccountNotFound)
}

func (s *AccountRepositorySuite) TestDedupeSorted_StableOrder() {
	id1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	id2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	out := dedupeSorted([]uuid.UUID{id2, id1, id2, id1})
	s.Equal([]uuid.UUID{id1, id2}, out)
}
