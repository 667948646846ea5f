package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
)

// RiderRepository defines the persistence contract for rider aggregates.
type RiderRepository interface {
	// Add persists a new rider.
	Add(ctx context.Context, aggregate *rider.Rider) error

	// Get retrieves a rider by id, or errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error)

	// Update persists name and approval.
	Update(ctx context.Context, aggregate *rider.Rider) error

	// HasActiveDelivery reports whether the rider holds a RIDER_ASSIGNED or
	// OUT_FOR_DELIVERY order.
	HasActiveDelivery(ctx context.Context, id kernel.UUID) (bool, error)

	// SaveAvailability writes the rider's availability. Writing true is
	// conditional on the rider holding no active delivery at that moment and
	// fails with errs.ConflictError otherwise.
	SaveAvailability(ctx context.Context, aggregate *rider.Rider) error

	// RecordDelivery increments the lifetime counter and frees the rider.
	RecordDelivery(ctx context.Context, aggregate *rider.Rider) error

	// MarkBusyUnavailable sets is_available = false for every rider holding an
	// active delivery and returns how many rows changed.
	MarkBusyUnavailable(ctx context.Context) (int64, error)
}
