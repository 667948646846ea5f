package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrListCommissionHistoryQueryIsNotConstructed = errors.New(
	"ListCommissionHistoryQuery must be created via NewListCommissionHistoryQuery constructor",
)

type ListCommissionHistoryQuery struct {
	guard guard.ConstructorGuard
}

func NewListCommissionHistoryQuery(admin kernel.Actor) (ListCommissionHistoryQuery, error) {
	if err := admin.Require(kernel.RoleAdmin); err != nil {
		return ListCommissionHistoryQuery{}, err
	}
	return ListCommissionHistoryQuery{guard: guard.NewConstructorGuard()}, nil
}

func (q ListCommissionHistoryQuery) Validate() error {
	return q.guard.Validate(ErrListCommissionHistoryQueryIsNotConstructed)
}

// ListCommissionHistoryQueryHandler lists every rate ever set, newest first.
type ListCommissionHistoryQueryHandler struct {
	db *gorm.DB
}

func NewListCommissionHistoryQueryHandler(db *gorm.DB) ListCommissionHistoryQueryHandler {
	return ListCommissionHistoryQueryHandler{db: db}
}

func (h ListCommissionHistoryQueryHandler) Handle(
	ctx context.Context,
	query ListCommissionHistoryQuery,
) ([]CommissionRateView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var rows []commissionRow
	err := h.db.WithContext(ctx).Table("commission_rates").
		Select("version, percentage, is_active, created_at").
		Order("version DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]CommissionRateView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.view())
	}
	return views, nil
}
