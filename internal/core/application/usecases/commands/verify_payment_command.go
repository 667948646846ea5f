package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrVerifyPaymentCommandIsNotConstructed = errors.New(
	"VerifyPaymentCommand must be created via NewVerifyPaymentCommand constructor",
)

// VerifyPaymentCommand carries the proof of payment the gateway handed back to
// the customer after checkout.
type VerifyPaymentCommand struct {
	customer  kernel.Actor
	orderID   kernel.UUID
	paymentID string
	signature string

	guard guard.ConstructorGuard
}

func NewVerifyPaymentCommand(
	customer kernel.Actor,
	orderID kernel.UUID,
	paymentID string,
	signature string,
) (VerifyPaymentCommand, error) {
	cmd := VerifyPaymentCommand{}

	if err := errors.Join(
		cmd.setCustomer(customer),
		cmd.setOrderID(orderID),
		cmd.setProof(paymentID, signature),
	); err != nil {
		return VerifyPaymentCommand{}, err
	}

	cmd.guard = guard.NewConstructorGuard()

	return cmd, nil
}

func (c *VerifyPaymentCommand) Validate() error {
	return c.guard.Validate(ErrVerifyPaymentCommandIsNotConstructed)
}

func (c *VerifyPaymentCommand) Customer() kernel.Actor {
	return c.customer
}

func (c *VerifyPaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *VerifyPaymentCommand) PaymentID() string {
	return c.paymentID
}

func (c *VerifyPaymentCommand) Signature() string {
	return c.signature
}

func (c *VerifyPaymentCommand) setCustomer(customer kernel.Actor) error {
	if err := customer.Require(kernel.RoleCustomer); err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *VerifyPaymentCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderId", err)
	}
	c.orderID = id
	return nil
}

func (c *VerifyPaymentCommand) setProof(paymentID, signature string) error {
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.TrimSpace(signature)
	if paymentID == "" {
		return errs.NewValueIsRequiredError("paymentId")
	}
	if signature == "" {
		return errs.NewValueIsRequiredError("signature")
	}
	c.paymentID = paymentID
	c.signature = signature
	return nil
}
