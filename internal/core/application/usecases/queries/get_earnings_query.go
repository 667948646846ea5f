package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetEarningsQueryIsNotConstructed = errors.New(
	"GetEarningsQuery must be created via NewGetEarningsQuery constructor",
)

// GetEarningsQuery reports what a store or a rider has earned. Only delivered
// orders count towards money.
type GetEarningsQuery struct {
	actor kernel.Actor
	guard guard.ConstructorGuard
}

func NewGetEarningsQuery(actor kernel.Actor) (GetEarningsQuery, error) {
	if err := actor.Validate(); err != nil {
		return GetEarningsQuery{}, err
	}
	if !actor.Is(kernel.RoleStore) && !actor.Is(kernel.RoleRider) {
		return GetEarningsQuery{}, errs.NewNotPermittedError("actor", "only stores and riders have earnings")
	}
	return GetEarningsQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q GetEarningsQuery) Validate() error {
	return q.guard.Validate(ErrGetEarningsQueryIsNotConstructed)
}

func (q GetEarningsQuery) Actor() kernel.Actor {
	return q.actor
}

// StoreEarningsView is the store dashboard.
type StoreEarningsView struct {
	PendingOrders   int64  `json:"pendingOrders"`
	ActiveOrders    int64  `json:"activeOrders"`
	CompletedOrders int64  `json:"completedOrders"`
	TotalSales      string `json:"totalSales"`
	TotalCommission string `json:"totalCommission"`
	NetPayout       string `json:"netPayout"`
}

// RiderEarningsView sums the delivery fees of a rider's delivered orders.
type RiderEarningsView struct {
	CompletedDeliveries int64  `json:"completedDeliveries"`
	TotalEarnings       string `json:"totalEarnings"`
	TotalDeliveries     int    `json:"lifetimeDeliveries"`
	IsAvailable         bool   `json:"isAvailable"`
	IsApproved          bool   `json:"isApproved"`
}

// EarningsView holds exactly one of Store or Rider.
type EarningsView struct {
	Store *StoreEarningsView `json:"store,omitempty"`
	Rider *RiderEarningsView `json:"rider,omitempty"`
}

type GetEarningsQueryHandler struct {
	db *gorm.DB
}

func NewGetEarningsQueryHandler(db *gorm.DB) GetEarningsQueryHandler {
	return GetEarningsQueryHandler{db: db}
}

func (h GetEarningsQueryHandler) Handle(ctx context.Context, query GetEarningsQuery) (EarningsView, error) {
	if err := query.Validate(); err != nil {
		return EarningsView{}, err
	}

	if query.Actor().Is(kernel.RoleStore) {
		v, err := h.store(ctx, query.Actor().ID())
		return EarningsView{Store: v}, err
	}
	v, err := h.rider(ctx, query.Actor().ID())
	return EarningsView{Rider: v}, err
}

func (h GetEarningsQueryHandler) store(ctx context.Context, storeID kernel.UUID) (*StoreEarningsView, error) {
	var row struct {
		Pending    int64
		Active     int64
		Completed  int64
		Sales      decimal.Decimal
		Commission decimal.Decimal
		Net        decimal.Decimal
	}

	err := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE status = @placed)                                          AS pending,
			COUNT(*) FILTER (WHERE status IN @active)                                         AS active,
			COUNT(*) FILTER (WHERE status = @delivered)                                       AS completed,
			COALESCE(SUM(total_amount) FILTER (WHERE status = @delivered), 0)                 AS sales,
			COALESCE(SUM(commission_amount) FILTER (WHERE status = @delivered), 0)            AS commission,
			COALESCE(SUM(total_amount - delivery_fee - commission_amount)
				FILTER (WHERE status = @delivered), 0)                                        AS net
		FROM orders
		WHERE store_id = @store
	`, map[string]any{
		"placed":    int(order.Placed),
		"active":    []int{int(order.Accepted), int(order.RiderAssigned), int(order.OutForDelivery)},
		"delivered": int(order.Delivered),
		"store":     storeID.Bytes(),
	}).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &StoreEarningsView{
		PendingOrders:   row.Pending,
		ActiveOrders:    row.Active,
		CompletedOrders: row.Completed,
		TotalSales:      money(row.Sales),
		TotalCommission: money(row.Commission),
		NetPayout:       money(row.Net),
	}, nil
}

func (h GetEarningsQueryHandler) rider(ctx context.Context, riderID kernel.UUID) (*RiderEarningsView, error) {
	var row struct {
		Completed       int64
		Earnings        decimal.Decimal
		TotalDeliveries int
		IsAvailable     bool
		IsApproved      bool
	}

	result := h.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(o.id)                       AS completed,
			COALESCE(SUM(o.delivery_fee), 0)  AS earnings,
			r.total_deliveries,
			r.is_available,
			r.is_approved
		FROM riders AS r
		LEFT JOIN orders AS o ON o.rider_id = r.id AND o.status = ?
		WHERE r.id = ?
		GROUP BY r.id
	`, int(order.Delivered), riderID.Bytes()).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("rider", riderID.String())
	}

	return &RiderEarningsView{
		CompletedDeliveries: row.Completed,
		TotalEarnings:       money(row.Earnings),
		TotalDeliveries:     row.TotalDeliveries,
		IsAvailable:         row.IsAvailable,
		IsApproved:          row.IsApproved,
	}, nil
}
