package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// PlaceOrderCommand represents a customer's request to order products from one
// store for delivery to an address.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(customer, storeID, []services.Line{
//	    {ProductID: naanID, Quantity: 2},
//	}, address, "ring twice")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct {
	customer kernel.Actor
	storeID  kernel.UUID
	lines    []services.Line
	address  order.Address
	notes    string

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a validated placement command. Only customers
// may place orders.
func NewPlaceOrderCommand(
	customer kernel.Actor,
	storeID kernel.UUID,
	lines []services.Line,
	address order.Address,
	notes string,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{}

	if err := errors.Join(
		cmd.setCustomer(customer),
		cmd.setStoreID(storeID),
		cmd.setLines(lines),
		cmd.setAddress(address),
		cmd.setNotes(notes),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	cmd.guard = guard.NewConstructorGuard()

	return cmd, nil
}

func (c *PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c *PlaceOrderCommand) Customer() kernel.Actor {
	return c.customer
}

func (c *PlaceOrderCommand) StoreID() kernel.UUID {
	return c.storeID
}

// Lines returns a copy of the requested lines.
func (c *PlaceOrderCommand) Lines() []services.Line {
	out := make([]services.Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// ProductIDs lists the distinct products the lines reference.
func (c *PlaceOrderCommand) ProductIDs() []kernel.UUID {
	seen := make(map[kernel.UUID]struct{}, len(c.lines))
	ids := make([]kernel.UUID, 0, len(c.lines))
	for _, l := range c.lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

func (c *PlaceOrderCommand) Address() order.Address {
	return c.address
}

func (c *PlaceOrderCommand) Notes() string {
	return c.notes
}

func (c *PlaceOrderCommand) setCustomer(customer kernel.Actor) error {
	if err := customer.Require(kernel.RoleCustomer); err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *PlaceOrderCommand) setStoreID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("storeId", err)
	}
	c.storeID = id
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []services.Line) error {
	if len(lines) == 0 {
		return services.ErrNoLines
	}
	for i, l := range lines {
		if err := l.ProductID.Validate(); err != nil {
			return errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].productId", i), err)
		}
		if l.Quantity < 1 || l.Quantity > order.MaxItemQuantity {
			return errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("items[%d].quantity", i), l.Quantity, 1, order.MaxItemQuantity)
		}
	}
	c.lines = make([]services.Line, len(lines))
	copy(c.lines, lines)
	return nil
}

func (c *PlaceOrderCommand) setAddress(address order.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	c.address = address
	return nil
}

func (c *PlaceOrderCommand) setNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > order.MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes", len(notes), 0, order.MaxNotesLength)
	}
	c.notes = notes
	return nil
}
