package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/appdotbuilder/bank-account-manager/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrHoldNotFound = errors.New("hold not found")

// holdRepository implements HoldRepositoryInterface
type holdRepository struct {
	db *gorm.DB
}

// NewHoldRepository creates a new hold repository
func NewHoldRepository(db *gorm.DB) HoldRepositoryInterface {
	return &holdRepository{db: db}
}

// Create creates a new hold
func (r *holdRepository) Create(hold *models.Hold) error {
	if err := r.db.Create(hold).Error; err != nil {
		return fmt.Errorf("failed to create hold: %w", err)
	}
	return nil
}

// GetByID retrieves a hold by ID
func (r *holdRepository) GetByID(id uuid.UUID) (*models.Hold, error) {
	var hold models.Hold
	if err := r.db.Where("id = ?", id).First(&hold).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHoldNotFound
		}
		return nil, fmt.Errorf("failed to get hold: %w", err)
	}
	return &hold, nil
}

// GetByAccountID retrieves all holds for an account, newest first
func (r *holdRepository) GetByAccountID(accountID uuid.UUID) ([]models.Hold, error) {
	var holds []models.Hold
	if err := r.db.Where("account_id = ?", accountID).Order("created_at DESC").Find(&holds).Error; err != nil {
		return nil, fmt.Errorf("failed to get holds for account: %w", err)
	}
	return holds, nil
}

// Update updates a hold
func (r *holdRepository) Update(hold *models.Hold) error {
	if err := r.db.Save(hold).Error; err != nil {
		return fmt.Errorf("failed to update hold: %w", err)
	}
	return nil
}

// ActiveHoldTotal sums the account's active, unexpired holds as of now.
// Holds past their expiry contribute nothing even if no sweep has stamped
// them expired yet.
func (r *holdRepository) ActiveHoldTotal(accountID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	return r.activeHoldTotal(r.db, accountID, now)
}

// ActiveHoldTotalTx is ActiveHoldTotal within an existing transaction scope
func (r *holdRepository) ActiveHoldTotalTx(tx *gorm.DB, accountID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	return r.activeHoldTotal(tx, accountID, now)
}

func (r *holdRepository) activeHoldTotal(db *gorm.DB, accountID uuid.UUID, now time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Model(&models.Hold{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("account_id = ? AND status = ?", accountID, models.HoldStatusActive).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum active holds: %w", err)
	}
	return total, nil
}

// MarkLapsedExpired stamps the expired status on active holds whose expiry
// has passed. Balance math never depends on this running; it only keeps the
// stored status in line with what ActiveHoldTotal already excludes.
func (r *holdRepository) MarkLapsedExpired(accountID uuid.UUID, now time.Time) (int64, error) {
	result := r.db.Model(&models.Hold{}).
		Where("account_id = ? AND status = ?", accountID, models.HoldStatusActive).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Update("status", models.HoldStatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark lapsed holds: %w", result.Error)
	}
	return result.RowsAffected, nil
}
