package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrGetAdminDashboardQueryIsNotConstructed = errors.New(
	"GetAdminDashboardQuery must be created via NewGetAdminDashboardQuery constructor",
)

type GetAdminDashboardQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAdminDashboardQuery(admin kernel.Actor) (GetAdminDashboardQuery, error) {
	if err := admin.Require(kernel.RoleAdmin); err != nil {
		return GetAdminDashboardQuery{}, err
	}
	return GetAdminDashboardQuery{guard: guard.NewConstructorGuard()}, nil
}

func (q GetAdminDashboardQuery) Validate() error {
	return q.guard.Validate(ErrGetAdminDashboardQueryIsNotConstructed)
}

// AdminDashboardView counts orders per status. Every status is present, with
// zero when no order has it.
type AdminDashboardView struct {
	TotalOrders     int64            `json:"totalOrders"`
	OrdersByStatus  map[string]int64 `json:"ordersByStatus"`
	TotalCommission string           `json:"totalCommission"`
	AvailableRiders int64            `json:"availableRiders"`
}

type GetAdminDashboardQueryHandler struct {
	db *gorm.DB
}

func NewGetAdminDashboardQueryHandler(db *gorm.DB) GetAdminDashboardQueryHandler {
	return GetAdminDashboardQueryHandler{db: db}
}

func (h GetAdminDashboardQueryHandler) Handle(ctx context.Context, query GetAdminDashboardQuery) (AdminDashboardView, error) {
	if err := query.Validate(); err != nil {
		return AdminDashboardView{}, err
	}

	view := AdminDashboardView{OrdersByStatus: make(map[string]int64)}
	for _, s := range order.Statuses() {
		view.OrdersByStatus[s.String()] = 0
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT status, COUNT(*) FROM orders GROUP BY status
	`).Rows()
	if err != nil {
		return AdminDashboardView{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var status int
		var count int64
		if err = rows.Scan(&status, &count); err != nil {
			return AdminDashboardView{}, err
		}
		view.OrdersByStatus[order.Status(status).String()] = count
		view.TotalOrders += count
	}
	if err = rows.Err(); err != nil {
		return AdminDashboardView{}, err
	}

	var commission decimal.Decimal
	err = h.db.WithContext(ctx).Raw(
		"SELECT COALESCE(SUM(commission_amount), 0) FROM orders WHERE status = ?", int(order.Delivered),
	).Row().Scan(&commission)
	if err != nil {
		return AdminDashboardView{}, err
	}
	view.TotalCommission = money(commission)

	err = h.db.WithContext(ctx).Raw(
		"SELECT COUNT(*) FROM riders WHERE is_approved AND is_available",
	).Row().Scan(&view.AvailableRiders)
	if err != nil {
		return AdminDashboardView{}, err
	}

	return view, nil
}
