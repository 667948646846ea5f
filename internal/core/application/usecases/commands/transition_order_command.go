package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via one of the NewAcceptOrderCommand, NewRejectOrderCommand, " +
		"NewCancelOrderCommand or NewPickUpOrderCommand constructors",
)

// TransitionOrderCommand moves one order along a transition that needs no
// input beyond the actor: store accept and reject, customer cancel and rider
// pick-up. Claim and deliver have their own commands.
type TransitionOrderCommand struct {
	actor      kernel.Actor
	orderID    kernel.UUID
	transition order.Transition

	guard guard.ConstructorGuard
}

func NewAcceptOrderCommand(store kernel.Actor, orderID kernel.UUID) (TransitionOrderCommand, error) {
	return newTransitionOrderCommand(order.StoreAccept, store, orderID)
}

func NewRejectOrderCommand(store kernel.Actor, orderID kernel.UUID) (TransitionOrderCommand, error) {
	return newTransitionOrderCommand(order.StoreReject, store, orderID)
}

// NewCancelOrderCommand builds a customer cancellation. Whether the order can
// still be cancelled is decided when the command is handled.
func NewCancelOrderCommand(customer kernel.Actor, orderID kernel.UUID) (TransitionOrderCommand, error) {
	return newTransitionOrderCommand(order.CustomerCancel, customer, orderID)
}

func NewPickUpOrderCommand(rider kernel.Actor, orderID kernel.UUID) (TransitionOrderCommand, error) {
	return newTransitionOrderCommand(order.RiderPickUp, rider, orderID)
}

func newTransitionOrderCommand(
	transition order.Transition,
	actor kernel.Actor,
	orderID kernel.UUID,
) (TransitionOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return TransitionOrderCommand{}, errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	if err := actor.Require(transition.Role()); err != nil {
		return TransitionOrderCommand{}, err
	}
	return TransitionOrderCommand{
		actor:      actor,
		orderID:    orderID,
		transition: transition,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c *TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c *TransitionOrderCommand) Actor() kernel.Actor {
	return c.actor
}

func (c *TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *TransitionOrderCommand) Transition() order.Transition {
	return c.transition
}

func (c *TransitionOrderCommand) String() string {
	return fmt.Sprintf("%s on %s by %s", c.transition, c.orderID, c.actor)
}
