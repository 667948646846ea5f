// Package catalog holds the read-only view of stores and products that order
// placement prices against. Stores and products are managed elsewhere.
package catalog

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type Store struct {
	ID       kernel.UUID
	Name     string
	Approved bool
	Active   bool
}

// AcceptsOrders fails unless the store is approved and open.
func (s Store) AcceptsOrders() error {
	if !s.Approved || !s.Active {
		return errs.NewValueIsInvalidErrorWithCause("storeId",
			fmt.Errorf("store %s is not accepting orders", s.ID))
	}
	return nil
}

type Product struct {
	ID            kernel.UUID
	StoreID       kernel.UUID
	Name          string
	Price         kernel.Money
	Available     bool
	StockQuantity int
}

// Reserve checks that quantity units can be sold from store. Stock is never
// decremented here.
func (p Product) Reserve(store kernel.UUID, quantity int) error {
	if !p.StoreID.IsEqual(store) {
		return errs.NewValueIsInvalidErrorWithCause("productId",
			fmt.Errorf("product %s does not belong to store %s", p.ID, store))
	}
	if !p.Available {
		return errs.NewValueIsInvalidErrorWithCause("productId",
			fmt.Errorf("product %s is not available", p.ID))
	}
	if quantity > p.StockQuantity {
		return errs.NewValueIsOutOfRangeError(fmt.Sprintf("quantity of %s", p.Name), quantity, 1, p.StockQuantity)
	}
	return nil
}
