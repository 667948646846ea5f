package order

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Transition is one edge of the lifecycle, named after the actor performing it.
type Transition int

const (
	UnknownTransition Transition = iota
	StoreAccept
	StoreReject
	CustomerCancel
	RiderClaim
	RiderPickUp
	RiderDeliver
)

type rule struct {
	name string
	from Status
	to   Status
	role kernel.Role
}

func getRules() map[Transition]rule {
	return map[Transition]rule{
		StoreAccept:    {name: "store_accept", from: Placed, to: Accepted, role: kernel.RoleStore},
		StoreReject:    {name: "store_reject", from: Placed, to: Cancelled, role: kernel.RoleStore},
		CustomerCancel: {name: "customer_cancel", from: Placed, to: Cancelled, role: kernel.RoleCustomer},
		RiderClaim:     {name: "rider_claim", from: Accepted, to: RiderAssigned, role: kernel.RoleRider},
		RiderPickUp:    {name: "rider_pick_up", from: RiderAssigned, to: OutForDelivery, role: kernel.RoleRider},
		RiderDeliver:   {name: "rider_deliver", from: OutForDelivery, to: Delivered, role: kernel.RoleRider},
	}
}

// Transitions lists every defined transition.
func Transitions() []Transition {
	return []Transition{StoreAccept, StoreReject, CustomerCancel, RiderClaim, RiderPickUp, RiderDeliver}
}

func (t Transition) Validate() error {
	if _, ok := getRules()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("transition", fmt.Errorf("%d is not a valid transition", t))
	}
	return nil
}

func (t Transition) String() string {
	if r, ok := getRules()[t]; ok {
		return r.name
	}
	return "unknown"
}

func (t Transition) From() Status {
	return getRules()[t].from
}

func (t Transition) To() Status {
	return getRules()[t].to
}

// Role is the only role allowed to perform t.
func (t Transition) Role() kernel.Role {
	return getRules()[t].role
}

var ErrChangeIsNotConstructed = errs.NewValueIsRequiredError("change must be created via NewChange or NewDeliveryChange")

// Change is a request by an actor to move an order along a transition.
type Change struct {
	transition Transition
	actor      kernel.Actor
	code       DeliveryCode
	at         time.Time
	guard      guard.ConstructorGuard
}

// NewChange builds a change for every transition except RiderDeliver, which
// needs the confirmation code and is built by NewDeliveryChange.
func NewChange(t Transition, actor kernel.Actor, at time.Time) (Change, error) {
	if t == RiderDeliver {
		return Change{}, errs.NewValueIsRequiredError("delivery code")
	}
	return newChange(t, actor, DeliveryCode{}, at)
}

func NewDeliveryChange(actor kernel.Actor, code DeliveryCode, at time.Time) (Change, error) {
	if err := code.Validate(); err != nil {
		return Change{}, err
	}
	return newChange(RiderDeliver, actor, code, at)
}

func newChange(t Transition, actor kernel.Actor, code DeliveryCode, at time.Time) (Change, error) {
	if err := t.Validate(); err != nil {
		return Change{}, err
	}
	if err := actor.Require(t.Role()); err != nil {
		return Change{}, err
	}
	if at.IsZero() {
		return Change{}, errs.NewValueIsRequiredError("at")
	}
	return Change{transition: t, actor: actor, code: code, at: at, guard: guard.NewConstructorGuard()}, nil
}

func (c Change) Validate() error {
	return c.guard.Validate(ErrChangeIsNotConstructed)
}

func (c Change) Transition() Transition {
	return c.transition
}

func (c Change) Actor() kernel.Actor {
	return c.actor
}

func (c Change) At() time.Time {
	return c.at
}
