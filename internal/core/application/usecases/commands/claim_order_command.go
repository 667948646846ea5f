package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrClaimOrderCommandIsNotConstructed = errors.New(
	"ClaimOrderCommand must be created via NewClaimOrderCommand constructor",
)

// ClaimOrderCommand is a rider's attempt to take an accepted order that has no
// rider yet. Several riders may race for the same order; one wins.
type ClaimOrderCommand struct {
	rider   kernel.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewClaimOrderCommand(rider kernel.Actor, orderID kernel.UUID) (ClaimOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ClaimOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if err := rider.Require(kernel.RoleRider); err != nil {
		return ClaimOrderCommand{}, err
	}
	return ClaimOrderCommand{rider: rider, orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c *ClaimOrderCommand) Validate() error {
	return c.guard.Validate(ErrClaimOrderCommandIsNotConstructed)
}

func (c *ClaimOrderCommand) Rider() kernel.Actor {
	return c.rider
}

func (c *ClaimOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}
