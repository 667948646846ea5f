package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order and its items. This is the pull path
// every actor can use to resynchronise after missing a push.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	var row orderRow
	result := h.db.WithContext(ctx).
		Raw("SELECT "+orderColumns+" FROM orders WHERE id = ?", query.OrderID().Bytes()).
		Scan(&row)
	if result.Error != nil {
		return OrderView{}, result.Error
	}

	viewer := query.Viewer()
	if result.RowsAffected == 0 || !row.visibleTo(viewer) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	items, err := loadItems(ctx, h.db, row.ID)
	if err != nil {
		return OrderView{}, err
	}

	return row.view(items[row.ID], viewer.Is(kernel.RoleCustomer)), nil
}

// loadItems returns the items of the given orders grouped by order id, each
// group in placement order.
func loadItems(ctx context.Context, db *gorm.DB, orderIDs ...uuid.UUID) (map[uuid.UUID][]itemRow, error) {
	grouped := make(map[uuid.UUID][]itemRow, len(orderIDs))
	if len(orderIDs) == 0 {
		return grouped, nil
	}

	var rows []itemRow
	err := db.WithContext(ctx).Raw(`
		SELECT order_id, product_id, product_name, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, orderIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		grouped[r.OrderID] = append(grouped[r.OrderID], r)
	}
	return grouped, nil
}
