package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrListClaimableOrdersQueryIsNotConstructed = errors.New(
	"ListClaimableOrdersQuery must be created via NewListClaimableOrdersQuery or NewStaleClaimableOrdersQuery",
)

// ListClaimableOrdersQuery lists ACCEPTED orders without a rider, oldest
// acceptance first.
//
// Riders build it with NewListClaimableOrdersQuery and must be approved. The
// rebroadcast job builds it with NewStaleClaimableOrdersQuery to find orders
// nobody has claimed for a while.
type ListClaimableOrdersQuery struct {
	rider          *kernel.Actor
	acceptedBefore time.Time

	guard guard.ConstructorGuard
}

func NewListClaimableOrdersQuery(rider kernel.Actor) (ListClaimableOrdersQuery, error) {
	if err := rider.Require(kernel.RoleRider); err != nil {
		return ListClaimableOrdersQuery{}, err
	}
	return ListClaimableOrdersQuery{rider: &rider, guard: guard.NewConstructorGuard()}, nil
}

func NewStaleClaimableOrdersQuery(acceptedBefore time.Time) (ListClaimableOrdersQuery, error) {
	if acceptedBefore.IsZero() {
		return ListClaimableOrdersQuery{}, errs.NewValueIsRequiredError("acceptedBefore")
	}
	return ListClaimableOrdersQuery{acceptedBefore: acceptedBefore, guard: guard.NewConstructorGuard()}, nil
}

func (q ListClaimableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListClaimableOrdersQueryIsNotConstructed)
}

// Rider is nil for the job's query.
func (q ListClaimableOrdersQuery) Rider() *kernel.Actor {
	return q.rider
}

// AcceptedBefore is zero for a rider's query.
func (q ListClaimableOrdersQuery) AcceptedBefore() time.Time {
	return q.acceptedBefore
}
