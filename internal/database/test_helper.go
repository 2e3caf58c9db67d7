package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/config"
	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// A single connection keeps every goroutine on the same in-memory
	// database and serializes writers.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Email:     email,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

func CreateTestAccountType(t *testing.T, db *DB, name string) *models.AccountType {
	t.Helper()

	perTxn := decimal.NewFromInt(1000)
	dormantDays := 180

	accountType := &models.AccountType{
		Name:                name,
		MinBalance:          decimal.NewFromInt(100),
		PerTransactionLimit: &perTxn,
		DormantAfterDays:    &dormantDays,
		ReactivateOnCredit:  true,
		IsActive:            true,
	}

	if err := db.Create(accountType).Error; err != nil {
		t.Fatalf("failed to create test account type: %v", err)
	}

	return accountType
}

func CreateTestAccount(t *testing.T, db *DB, user *models.User, accountType *models.AccountType, balance decimal.Decimal) *models.Account {
	t.Helper()

	now := time.Now()
	account := &models.Account{
		AccountNumber:  models.GenerateAccountNumber(),
		UserID:         user.ID,
		AccountTypeID:  accountType.ID,
		Balance:        balance,
		Status:         models.AccountStatusActive,
		LastActivityAt: &now,
	}

	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}

	return account
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"audit_logs",
		"auto_debits",
		"account_holds",
		"transactions",
		"accounts",
		"account_types",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
