// Package commissionrepo stores the commission rate history. Rows are only
// ever appended; replacing the rate flips is_active on every row and inserts
// the new head in the same transaction.
package commissionrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionRateDTO is one version of the platform commission. The partial
// unique index allows a single active row.
type CommissionRateDTO struct {
	Version    int64           `gorm:"primaryKey;autoIncrement:false"`
	Percentage decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	IsActive   bool            `gorm:"not null;index:idx_commission_rates_single_active,unique,where:is_active"`
	CreatedAt  time.Time       `gorm:"not null"`
}

func (CommissionRateDTO) TableName() string {
	return "commission_rates"
}

func toDomain(dto CommissionRateDTO) (*commission.Entry, error) {
	rate, err := commission.NewRate(dto.Percentage)
	if err != nil {
		return nil, err
	}
	return commission.RestoreEntry(dto.Version, rate, dto.IsActive, dto.CreatedAt)
}

// GormCommissionRepository implements ports.CommissionRepository using GORM.
type GormCommissionRepository struct {
	db *gorm.DB
}

func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// Active returns the active entry, or nil when no rate was ever set.
func (r *GormCommissionRepository) Active(ctx context.Context) (*commission.Entry, error) {
	var dto CommissionRateDTO
	err := r.db.WithContext(ctx).Where("is_active").Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // empty history falls back to the configured default
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// Replace deactivates every row and appends entry as version max+1.
func (r *GormCommissionRepository) Replace(ctx context.Context, entry *commission.Entry) (*commission.Entry, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)
	if err := db.Model(&CommissionRateDTO{}).Where("is_active").Update("is_active", false).Error; err != nil {
		return nil, err
	}

	var latest int64
	if err := db.Model(&CommissionRateDTO{}).Select("COALESCE(MAX(version), 0)").Scan(&latest).Error; err != nil {
		return nil, err
	}

	dto := CommissionRateDTO{
		Version:    latest + 1,
		Percentage: entry.Rate().Percentage(),
		IsActive:   true,
		CreatedAt:  entry.CreatedAt(),
	}
	if err := db.Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictErrorWithCause("commission", dto.Version,
				"commission rate was replaced concurrently", err)
		}
		return nil, err
	}

	return toDomain(dto)
}
