package rider

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const MaxNameLength = 255

// Domain errors for rider operations.
var (
	// ErrNameIsRequired is returned when attempting to create a rider without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrRiderIsNotConstructed is returned when using an improperly initialized Rider.
	ErrRiderIsNotConstructed = errors.New("Rider must be created via NewRider or RestoreRider constructor")
)

// Rider represents a delivery rider.
// It is an aggregate root that tracks whether the rider may work (approval),
// whether the rider wants to work right now (availability) and how many orders
// the rider has delivered in total.
//
// Business rules:
//   - Rider must have a valid UUID and a non-empty name
//   - New riders start unapproved and unavailable
//   - Availability cannot be switched on while an active delivery is held
//   - Each completed delivery increments the counter and frees the rider
//
// Example usage:
//
//	r, err := rider.NewRider(kernel.NewUUID(), "Rahim")
//	if err != nil {
//	    // Handle construction error
//	}
//	r.Approve()
type Rider struct {
	// id uniquely identifies the rider; it is the subject of the rider's token
	id kernel.UUID
	// name is the human-readable name of the rider
	name string
	// approved is set by an administrator and gates every dispatch operation
	approved bool
	// available reports whether the rider is ready to take a new order
	available bool
	// totalDeliveries counts delivered orders over the rider's lifetime
	totalDeliveries int
	// guard ensures the rider was properly constructed
	guard guard.ConstructorGuard
}

// NewRider creates a new unapproved, unavailable Rider.
//
// Parameters:
//   - id: Unique identifier for the rider (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//
// Returns:
//   - *Rider: A rider waiting for approval
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewRider(id kernel.UUID, name string) (*Rider, error) {
	r := &Rider{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// RestoreRider reconstructs a Rider aggregate from persistent storage.
//
// Parameters:
//   - id: Unique identifier for the rider
//   - name: Human-readable rider name
//   - approved: Whether an administrator approved the rider
//   - available: Whether the rider is ready for a new order
//   - totalDeliveries: Lifetime delivered orders (must not be negative)
//
// Returns:
//   - *Rider: Restored rider aggregate
//   - error: Validation error if any parameter is invalid
func RestoreRider(id kernel.UUID, name string, approved, available bool, totalDeliveries int) (*Rider, error) {
	r := &Rider{
		approved:  approved,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setName(name),
		r.setTotalDeliveries(totalDeliveries),
	); err != nil {
		return nil, err
	}

	return r, nil
}

// IsEqual compares two riders by their identifiers.
func (r *Rider) IsEqual(other *Rider) bool {
	if other == nil {
		return false
	}
	return r.id.IsEqual(other.id)
}

// Validate checks if the Rider was properly constructed.
// The zero value of Rider is invalid and will fail this validation.
func (r *Rider) Validate() error {
	if r == nil {
		return ErrRiderIsNotConstructed
	}
	return r.guard.Validate(ErrRiderIsNotConstructed)
}

// ID returns the unique identifier of the rider.
func (r *Rider) ID() kernel.UUID {
	return r.id
}

// Name returns the human-readable name of the rider.
func (r *Rider) Name() string {
	return r.name
}

// IsApproved reports whether an administrator approved the rider.
func (r *Rider) IsApproved() bool {
	return r.approved
}

// IsAvailable reports whether the rider is ready for a new order.
func (r *Rider) IsAvailable() bool {
	return r.available
}

// TotalDeliveries returns the lifetime number of delivered orders.
func (r *Rider) TotalDeliveries() int {
	return r.totalDeliveries
}

// Approve marks the rider as approved. Approving twice is a no-op.
func (r *Rider) Approve() {
	r.approved = true
}

// CanDispatch checks that the rider may list and claim orders.
//
// Returns:
//   - error: NotPermittedError if the rider has not been approved yet
//
// Example:
//
//	if err := r.CanDispatch(); err != nil {
//	    return err // 403 for the caller
//	}
func (r *Rider) CanDispatch() error {
	if !r.approved {
		return errs.NewNotPermittedError("rider", "rider is not approved")
	}
	return nil
}

// SetAvailability switches the rider's availability.
//
// Turning availability off always succeeds. Turning it on fails with a
// ConflictError while the rider still holds an active delivery; storage runs
// the same check in the update statement so a concurrent claim cannot slip
// in between.
//
// Parameters:
//   - available: The requested availability
//   - hasActiveDelivery: Whether the rider holds a RIDER_ASSIGNED or OUT_FOR_DELIVERY order
func (r *Rider) SetAvailability(available, hasActiveDelivery bool) error {
	if available && hasActiveDelivery {
		return errs.NewConflictError("rider", r.id, "rider has an active delivery")
	}
	r.available = available
	return nil
}

// MarkUnavailable is applied after the rider claims an order.
func (r *Rider) MarkUnavailable() {
	r.available = false
}

// RecordDelivery counts a completed delivery and frees the rider for the next one.
func (r *Rider) RecordDelivery() {
	r.totalDeliveries++
	r.available = true
}

// setID validates and sets the rider's unique identifier.
func (r *Rider) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	r.id = id
	return nil
}

// setName validates and sets the rider's name.
func (r *Rider) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	if len(name) > MaxNameLength {
		return errs.NewValueIsOutOfRangeError("name length", len(name), 1, MaxNameLength)
	}

	r.name = name
	return nil
}

// setTotalDeliveries validates the restored delivery counter.
func (r *Rider) setTotalDeliveries(total int) error {
	if total < 0 {
		return errs.NewValueIsOutOfRangeError("totalDeliveries", total, 0, "unbounded")
	}

	r.totalDeliveries = total
	return nil
}
