// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work, the catalog, the payment
// gateway and the push side of notifications.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are never deleted.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a transition as one conditional statement. The row is
	// written only while it still has expected.Status and expected.RiderID;
	// otherwise nothing is written and an errs.ConflictError is returned.
	//
	// When the aggregate has just been claimed the statement additionally
	// requires that its rider holds no other RIDER_ASSIGNED or
	// OUT_FOR_DELIVERY order.
	//
	// Example:
	//   expected := o.Precondition()
	//   if err := o.Apply(change); err != nil {
	//       return err
	//   }
	//   if err := repo.Update(ctx, o, expected); err != nil {
	//       return err // another actor got there first
	//   }
	Update(ctx context.Context, aggregate *order.Order, expected order.Precondition) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no order has this id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
