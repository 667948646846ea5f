package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// ErrNoLines is returned when an order is placed without any product line.
var ErrNoLines = errs.NewValueIsRequiredError("items")

// Line is one product and quantity requested by the customer.
type Line struct {
	ProductID kernel.UUID
	Quantity  int
}

// OrderPricer turns requested lines into priced order items.
//
// Business rules:
//   - The store must be approved and active
//   - Every product must exist, belong to the store and be available
//   - A product may appear in only one line
//   - Every line must fit the product's stock; the check is all-or-nothing
//     and stock is never decremented
//   - Name and unit price are copied from the catalog at this moment
//
// Example usage:
//
//	pricer := services.NewOrderPricer()
//	items, err := pricer.Price(store, products, lines)
//	if err != nil {
//	    // nothing was persisted yet
//	    return err
//	}
type OrderPricer struct{}

// NewOrderPricer creates a new OrderPricer instance.
func NewOrderPricer() OrderPricer {
	return OrderPricer{}
}

// Price validates lines against the catalog and builds the order items.
//
// Parameters:
//   - store: The store the order is placed with
//   - products: Catalog products keyed by id; missing ids are reported as not found
//   - lines: Requested product lines in customer order
//
// Returns:
//   - []order.Item: One item per line, in the same order
//   - error: The first failing rule; no partial result is returned
func (p OrderPricer) Price(
	store catalog.Store,
	products map[kernel.UUID]catalog.Product,
	lines []Line,
) ([]order.Item, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if err := store.AcceptsOrders(); err != nil {
		return nil, err
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	items := make([]order.Item, 0, len(lines))
	for i, line := range lines {
		if _, dup := seen[line.ProductID]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i),
				fmt.Errorf("product %s appears more than once", line.ProductID))
		}
		seen[line.ProductID] = struct{}{}

		product, ok := products[line.ProductID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product", line.ProductID)
		}

		if err := product.Reserve(store.ID, line.Quantity); err != nil {
			return nil, err
		}

		item, err := order.NewItem(kernel.NewUUID(), product.ID, product.Name, product.Price, line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}

	return items, nil
}
