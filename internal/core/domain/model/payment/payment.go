// Package payment holds the Payment aggregate created for every placed order
// and confirmed once the gateway reports the customer paid.
package payment

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusPaid:
		return nil
	default:
		return errs.NewValueIsInvalidError("payment status")
	}
}

var ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment or RestorePayment constructor")

// Payment tracks one gateway payment per order. Handle is the gateway's
// reference returned at creation; GatewayPaymentID arrives on verification.
type Payment struct {
	id               kernel.UUID
	orderID          kernel.UUID
	handle           string
	gatewayPaymentID string
	amount           kernel.Money
	status           Status
	createdAt        time.Time
	paidAt           *time.Time
	guard            guard.ConstructorGuard
}

func NewPayment(id, orderID kernel.UUID, handle string, amount kernel.Money, createdAt time.Time) (*Payment, error) {
	p := &Payment{status: StatusPending, guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setIDs(id, orderID),
		p.setHandle(handle),
		amount.Validate(),
		p.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	p.amount = amount
	return p, nil
}

// State is the persisted form of a payment.
type State struct {
	ID               kernel.UUID
	OrderID          kernel.UUID
	Handle           string
	GatewayPaymentID string
	Amount           kernel.Money
	Status           Status
	CreatedAt        time.Time
	PaidAt           *time.Time
}

func RestorePayment(s State) (*Payment, error) {
	p := &Payment{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		p.setIDs(s.ID, s.OrderID),
		p.setHandle(s.Handle),
		s.Amount.Validate(),
		s.Status.Validate(),
		p.setCreatedAt(s.CreatedAt),
	); err != nil {
		return nil, err
	}
	if (s.Status == StatusPaid) != (s.PaidAt != nil) {
		return nil, errs.NewValueIsInvalidError("paidAt")
	}

	p.gatewayPaymentID = s.GatewayPaymentID
	p.amount = s.Amount
	p.status = s.Status
	p.paidAt = s.PaidAt
	return p, nil
}

func (p *Payment) Validate() error {
	if p == nil {
		return ErrPaymentIsNotConstructed
	}
	return p.guard.Validate(ErrPaymentIsNotConstructed)
}

func (p *Payment) ID() kernel.UUID {
	return p.id
}

func (p *Payment) OrderID() kernel.UUID {
	return p.orderID
}

func (p *Payment) Handle() string {
	return p.handle
}

func (p *Payment) GatewayPaymentID() string {
	return p.gatewayPaymentID
}

func (p *Payment) Amount() kernel.Money {
	return p.amount
}

func (p *Payment) Status() Status {
	return p.status
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) PaidAt() *time.Time {
	return p.paidAt
}

// MarkPaid records the gateway payment id. A payment is paid at most once.
func (p *Payment) MarkPaid(gatewayPaymentID string, at time.Time) error {
	if p.status == StatusPaid {
		return errs.NewConflictError("payment", p.id, "payment is already paid")
	}
	if strings.TrimSpace(gatewayPaymentID) == "" {
		return errs.NewValueIsRequiredError("paymentId")
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("paidAt")
	}
	p.gatewayPaymentID = gatewayPaymentID
	p.status = StatusPaid
	p.paidAt = &at
	return nil
}

func (p *Payment) setIDs(id, orderID kernel.UUID) error {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return err
	}
	p.id = id
	p.orderID = orderID
	return nil
}

func (p *Payment) setHandle(handle string) error {
	if strings.TrimSpace(handle) == "" {
		return errs.NewValueIsRequiredError("handle")
	}
	p.handle = handle
	return nil
}

func (p *Payment) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	p.createdAt = at
	return nil
}
