package queries

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetCommissionRateQueryIsNotConstructed = errors.New(
	"GetCommissionRateQuery must be created via NewGetCommissionRateQuery constructor",
)

type GetCommissionRateQuery struct {
	guard guard.ConstructorGuard
}

func NewGetCommissionRateQuery(admin kernel.Actor) (GetCommissionRateQuery, error) {
	if err := admin.Require(kernel.RoleAdmin); err != nil {
		return GetCommissionRateQuery{}, err
	}
	return GetCommissionRateQuery{guard: guard.NewConstructorGuard()}, nil
}

func (q GetCommissionRateQuery) Validate() error {
	return q.guard.Validate(ErrGetCommissionRateQueryIsNotConstructed)
}

// CommissionRateView is one entry of the rate history. The configured default
// is reported with IsDefault set, version 0 and no creation time.
type CommissionRateView struct {
	Version    int64      `json:"version"`
	Percentage string     `json:"percentage"`
	IsActive   bool       `json:"isActive"`
	IsDefault  bool       `json:"isDefault"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

type commissionRow struct {
	Version    int64
	Percentage decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
}

func (r commissionRow) view() CommissionRateView {
	created := r.CreatedAt.UTC()
	return CommissionRateView{
		Version:    r.Version,
		Percentage: r.Percentage.String(),
		IsActive:   r.IsActive,
		CreatedAt:  &created,
	}
}

// GetCommissionRateQueryHandler answers with the active rate, falling back to
// the configured default while the history is empty.
type GetCommissionRateQueryHandler struct {
	db       *gorm.DB
	fallback commission.Rate
}

func NewGetCommissionRateQueryHandler(db *gorm.DB, fallback commission.Rate) GetCommissionRateQueryHandler {
	return GetCommissionRateQueryHandler{db: db, fallback: fallback}
}

func (h GetCommissionRateQueryHandler) Handle(
	ctx context.Context,
	query GetCommissionRateQuery,
) (CommissionRateView, error) {
	if err := query.Validate(); err != nil {
		return CommissionRateView{}, err
	}

	var rows []commissionRow
	err := h.db.WithContext(ctx).Table("commission_rates").
		Select("version, percentage, is_active, created_at").
		Where("is_active").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return CommissionRateView{}, err
	}

	if len(rows) == 0 {
		return CommissionRateView{
			Percentage: h.fallback.Percentage().String(),
			IsActive:   true,
			IsDefault:  true,
		}, nil
	}
	return rows[0].view(), nil
}
