package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler serves the order lists of every dashboard.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	viewer := query.Viewer()
	tx := h.db.WithContext(ctx).Table("orders").Select(orderColumns)

	switch viewer.Role() {
	case kernel.RoleCustomer:
		tx = tx.Where("customer_id = ?", viewer.ID().Bytes())
	case kernel.RoleStore:
		tx = tx.Where("store_id = ?", viewer.ID().Bytes())
	case kernel.RoleRider:
		tx = tx.Where("rider_id = ?", viewer.ID().Bytes())
	case kernel.RoleAdmin:
	}

	if status := query.Status(); status != nil {
		tx = tx.Where("status = ?", int(*status))
	}

	var rows []orderRow
	err := tx.Order("placed_at DESC").Order("id").
		Limit(query.Limit()).Offset(query.Offset()).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return viewsWithItems(ctx, h.db, rows, viewer.Is(kernel.RoleCustomer))
}

func viewsWithItems(ctx context.Context, db *gorm.DB, rows []orderRow, withCode bool) ([]OrderView, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	items, err := loadItems(ctx, db, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, r := range rows {
		views = append(views, r.view(items[r.ID], withCode))
	}
	return views, nil
}
