package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// Seed populates the reference data every deployment needs (account types,
// an administrator, an operator) and, outside production, a handful of demo
// customers with funded accounts. Seeding is idempotent: existing rows are
// left alone.
func (db *DB) Seed(withDemoData bool) error {
	if err := db.seedAccountTypes(); err != nil {
		return err
	}

	if err := db.seedStaff(); err != nil {
		return err
	}

	if withDemoData {
		if err := db.seedDemoCustomers(); err != nil {
			return err
		}
	}

	log.Println("Database seeding completed")
	return nil
}

// SeedIfEnabled seeds when SEED_DATABASE=true; demo customers are added
// unless APP_ENV is production.
func (db *DB) SeedIfEnabled() error {
	if os.Getenv("SEED_DATABASE") != "true" {
		log.Println("Database seeding disabled (SEED_DATABASE != true)")
		return nil
	}

	withDemoData := os.Getenv("APP_ENV") != "production"
	return db.Seed(withDemoData)
}

func (db *DB) seedAccountTypes() error {
	savingsMax := decimal.NewFromInt(50000)
	savingsPerTxn := decimal.NewFromInt(1000)
	savingsDormant := 180

	checkingPerTxn := decimal.NewFromInt(2500)
	checkingDormant := 365

	businessPerTxn := decimal.NewFromInt(10000)
	businessDormant := 90

	accountTypes := []models.AccountType{
		{
			Name:                "Savings",
			Description:         "Personal savings account",
			MinBalance:          decimal.NewFromInt(100),
			MaxBalance:          &savingsMax,
			PerTransactionLimit: &savingsPerTxn,
			DormantAfterDays:    &savingsDormant,
			ReactivateOnCredit:  true,
			IsActive:            true,
		},
		{
			Name:                "Checking",
			Description:         "Everyday checking account",
			MinBalance:          decimal.Zero,
			PerTransactionLimit: &checkingPerTxn,
			DormantAfterDays:    &checkingDormant,
			ReactivateOnCredit:  true,
			IsActive:            true,
		},
		{
			Name:                "Business",
			Description:         "Business operating account",
			MinBalance:          decimal.NewFromInt(500),
			PerTransactionLimit: &businessPerTxn,
			DormantAfterDays:    &businessDormant,
			ReactivateOnCredit:  true,
			IsActive:            true,
		},
	}

	for i := range accountTypes {
		var count int64
		if err := db.Model(&models.AccountType{}).Where("name = ?", accountTypes[i].Name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account type %s: %w", accountTypes[i].Name, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&accountTypes[i]).Error; err != nil {
			return fmt.Errorf("failed to seed account type %s: %w", accountTypes[i].Name, err)
		}
	}

	return nil
}

func (db *DB) seedStaff() error {
	staff := []models.User{
		{
			Email:     "admin@bank.local",
			FirstName: "System",
			LastName:  "Administrator",
			Role:      models.RoleAdministrator,
		},
		{
			Email:     "operator@bank.local",
			FirstName: "Branch",
			LastName:  "Operator",
			Role:      models.RoleOperator,
		},
	}

	for i := range staff {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", staff[i].Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user %s: %w", staff[i].Email, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&staff[i]).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", staff[i].Email, err)
		}
	}

	return nil
}

func (db *DB) seedDemoCustomers() error {
	var savings models.AccountType
	if err := db.Where("name = ?", "Savings").First(&savings).Error; err != nil {
		return fmt.Errorf("failed to load savings account type: %w", err)
	}

	faker := gofakeit.New(0)

	for i := 0; i < 5; i++ {
		firstName := faker.FirstName()
		lastName := faker.LastName()
		email := strings.ToLower(fmt.Sprintf("%s.%s@example.com", firstName, lastName))

		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check demo user: %w", err)
		}
		if count > 0 {
			continue
		}

		customer := models.User{
			Email:     email,
			FirstName: firstName,
			LastName:  lastName,
			Role:      models.RoleCustomer,
		}
		if err := db.Create(&customer).Error; err != nil {
			return fmt.Errorf("failed to seed demo customer: %w", err)
		}

		now := time.Now()
		account := models.Account{
			AccountNumber:  models.GenerateAccountNumber(),
			UserID:         customer.ID,
			AccountTypeID:  savings.ID,
			Balance:        decimal.NewFromFloat(faker.Price(100, 5000)).Round(2),
			Status:         models.AccountStatusActive,
			LastActivityAt: &now,
		}
		if err := db.Create(&account).Error; err != nil {
			return fmt.Errorf("failed to seed demo account: %w", err)
		}
	}

	return nil
}
