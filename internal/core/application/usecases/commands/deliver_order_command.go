package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDeliverOrderCommandIsNotConstructed = errors.New(
	"DeliverOrderCommand must be created via NewDeliverOrderCommand constructor",
)

// DeliverOrderCommand completes a delivery with the code the customer reads
// out to the rider. The code must be six digits; whether it matches is decided
// by the handler.
type DeliverOrderCommand struct {
	rider   kernel.Actor
	orderID kernel.UUID
	code    order.DeliveryCode

	guard guard.ConstructorGuard
}

func NewDeliverOrderCommand(rider kernel.Actor, orderID kernel.UUID, code string) (DeliverOrderCommand, error) {
	cmd := DeliverOrderCommand{}

	if err := errors.Join(
		cmd.setRider(rider),
		cmd.setOrderID(orderID),
		cmd.setCode(code),
	); err != nil {
		return DeliverOrderCommand{}, err
	}

	cmd.guard = guard.NewConstructorGuard()

	return cmd, nil
}

func (c *DeliverOrderCommand) Validate() error {
	return c.guard.Validate(ErrDeliverOrderCommandIsNotConstructed)
}

func (c *DeliverOrderCommand) Rider() kernel.Actor {
	return c.rider
}

func (c *DeliverOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *DeliverOrderCommand) Code() order.DeliveryCode {
	return c.code
}

func (c *DeliverOrderCommand) setRider(rider kernel.Actor) error {
	if err := rider.Require(kernel.RoleRider); err != nil {
		return err
	}
	c.rider = rider
	return nil
}

func (c *DeliverOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *DeliverOrderCommand) setCode(code string) error {
	parsed, err := order.DeliveryCodeFromString(code)
	if err != nil {
		return err
	}
	c.code = parsed
	return nil
}
