package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetRiderActiveOrderQueryIsNotConstructed = errors.New(
	"GetRiderActiveOrderQuery must be created via NewGetRiderActiveOrderQuery constructor",
)

// GetRiderActiveOrderQuery finds the RIDER_ASSIGNED or OUT_FOR_DELIVERY order
// a rider is working on.
type GetRiderActiveOrderQuery struct {
	rider kernel.Actor
	guard guard.ConstructorGuard
}

func NewGetRiderActiveOrderQuery(rider kernel.Actor) (GetRiderActiveOrderQuery, error) {
	if err := rider.Require(kernel.RoleRider); err != nil {
		return GetRiderActiveOrderQuery{}, err
	}
	return GetRiderActiveOrderQuery{rider: rider, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRiderActiveOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetRiderActiveOrderQueryIsNotConstructed)
}

func (q GetRiderActiveOrderQuery) Rider() kernel.Actor {
	return q.rider
}

type GetRiderActiveOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetRiderActiveOrderQueryHandler(db *gorm.DB) GetRiderActiveOrderQueryHandler {
	return GetRiderActiveOrderQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError when the rider is idle.
func (h GetRiderActiveOrderQueryHandler) Handle(ctx context.Context, query GetRiderActiveOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var rows []orderRow
	err := h.db.WithContext(ctx).Table("orders").Select(orderColumns).
		Where("rider_id = ? AND status IN ?", query.Rider().ID().Bytes(),
			[]int{int(order.RiderAssigned), int(order.OutForDelivery)}).
		Order("rider_assigned_at DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return OrderView{}, err
	}
	if len(rows) == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("active order", query.Rider().ID().String())
	}

	views, err := viewsWithItems(ctx, h.db, rows, false)
	if err != nil {
		return OrderView{}, err
	}
	return views[0], nil
}
