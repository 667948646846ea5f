package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const MaxNotesLength = 500

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Draft carries what the customer asked for, already priced against the
// catalog, plus the fee and commission rate in force at placement.
type Draft struct {
	CustomerID  kernel.UUID
	StoreID     kernel.UUID
	Items       []Item
	DeliveryFee kernel.Money
	Commission  commission.Rate
	Address     Address
	Notes       string
}

// Timeline holds one timestamp per transition; each stays nil until the
// transition happens.
type Timeline struct {
	PlacedAt         time.Time
	AcceptedAt       *time.Time
	RiderAssignedAt  *time.Time
	OutForDeliveryAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
}

// Precondition is the part of the order state a conditional update compares
// against: storage applies a change only while the row still matches it.
type Precondition struct {
	Status  Status
	RiderID *kernel.UUID
}

// Order is the aggregate root of the lifecycle. Monetary fields are a
// snapshot taken at placement and are never recomputed:
//
//	subtotal   = Σ item line totals
//	commission = subtotal × rate / 100
//	total      = subtotal + delivery fee
//
// The rider is unset until claimed and never reverts once set.
type Order struct {
	id             kernel.UUID
	number         Number
	customerID     kernel.UUID
	storeID        kernel.UUID
	riderID        *kernel.UUID
	status         Status
	items          []Item
	subtotal       kernel.Money
	deliveryFee    kernel.Money
	commissionRate commission.Rate
	commission     kernel.Money
	total          kernel.Money
	deliveryCode   DeliveryCode
	address        Address
	notes          string
	timeline       Timeline
	guard          guard.ConstructorGuard
}

// NewOrder creates a PLACED order from a priced draft.
//
//	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(now), code, draft, now)
func NewOrder(id kernel.UUID, number Number, code DeliveryCode, draft Draft, placedAt time.Time) (*Order, error) {
	o := &Order{
		status: Placed,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setDeliveryCode(code),
		o.setParticipants(draft.CustomerID, draft.StoreID),
		o.setItems(draft.Items),
		o.setDeliveryFee(draft.DeliveryFee),
		o.setCommissionRate(draft.Commission),
		o.setAddress(draft.Address),
		o.setNotes(draft.Notes),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	subtotal := kernel.ZeroMoney()
	for _, item := range o.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	o.subtotal = subtotal
	o.commission = o.commissionRate.Of(subtotal)
	o.total = subtotal.Add(o.deliveryFee)

	return o, nil
}

// State is the persisted form of an order used by RestoreOrder.
type State struct {
	ID             kernel.UUID
	Number         Number
	CustomerID     kernel.UUID
	StoreID        kernel.UUID
	RiderID        *kernel.UUID
	Status         Status
	Items          []Item
	Subtotal       kernel.Money
	DeliveryFee    kernel.Money
	CommissionRate commission.Rate
	Commission     kernel.Money
	Total          kernel.Money
	DeliveryCode   DeliveryCode
	Address        Address
	Notes          string
	Timeline       Timeline
}

// RestoreOrder rebuilds an order from storage and re-checks the invariants
// that relate fields to each other.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setDeliveryCode(s.DeliveryCode),
		o.setParticipants(s.CustomerID, s.StoreID),
		o.setItems(s.Items),
		o.setDeliveryFee(s.DeliveryFee),
		o.setCommissionRate(s.CommissionRate),
		o.setAddress(s.Address),
		o.setNotes(s.Notes),
		o.setPlacedAt(s.Timeline.PlacedAt),
		s.Status.Validate(),
		s.Status.ValidateCanHaveRider(s.RiderID != nil),
		s.Subtotal.Validate(),
		s.Commission.Validate(),
		s.Total.Validate(),
	); err != nil {
		return nil, err
	}

	if !s.Total.Equal(s.Subtotal.Add(s.DeliveryFee)) {
		return nil, errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%s is not subtotal %s plus delivery fee %s", s.Total, s.Subtotal, s.DeliveryFee))
	}
	if (s.Timeline.DeliveredAt != nil) != (s.Status == Delivered) {
		return nil, errs.NewValueIsInvalidErrorWithCause("deliveredAt",
			fmt.Errorf("must be set exactly when status is %s", Delivered))
	}
	if (s.Timeline.CancelledAt != nil) != (s.Status == Cancelled) {
		return nil, errs.NewValueIsInvalidErrorWithCause("cancelledAt",
			fmt.Errorf("must be set exactly when status is %s", Cancelled))
	}

	o.riderID = s.RiderID
	o.status = s.Status
	o.subtotal = s.Subtotal
	o.commission = s.Commission
	o.total = s.Total
	o.timeline = s.Timeline
	return o, nil
}

// Validate ensures the order was built through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

// Renumber swaps the reference of an order that storage refused because the
// number was taken. Nothing else about the order changes.
func (o *Order) Renumber(number Number) error {
	if err := o.Validate(); err != nil {
		return err
	}
	return o.setNumber(number)
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) StoreID() kernel.UUID {
	return o.storeID
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

func (o *Order) CommissionRate() commission.Rate {
	return o.commissionRate
}

func (o *Order) Commission() kernel.Money {
	return o.commission
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) DeliveryCode() DeliveryCode {
	return o.deliveryCode
}

func (o *Order) Address() Address {
	return o.address
}

func (o *Order) Notes() string {
	return o.notes
}

func (o *Order) Timeline() Timeline {
	return o.timeline
}

// RiderID returns the claiming rider, nil until the order is claimed.
func (o *Order) RiderID() *kernel.UUID {
	if o.riderID == nil {
		return nil
	}
	id := *o.riderID
	return &id
}

func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// IsParticipant reports whether the actor may see the order: its customer,
// its store, its rider or any administrator.
func (o *Order) IsParticipant(actor kernel.Actor) bool {
	switch actor.Role() {
	case kernel.RoleAdmin:
		return true
	case kernel.RoleCustomer:
		return o.customerID.IsEqual(actor.ID())
	case kernel.RoleStore:
		return o.storeID.IsEqual(actor.ID())
	case kernel.RoleRider:
		return o.riderID != nil && o.riderID.IsEqual(actor.ID())
	default:
		return false
	}
}

// Precondition captures the state a conditional update must still find.
func (o *Order) Precondition() Precondition {
	return Precondition{Status: o.status, RiderID: o.RiderID()}
}

// Apply moves the order along the change's transition. It fails with a
// ConflictError when the order is not in the transition's source status or
// does not belong to the actor, and with an InvalidCredentialError when a
// delivery code does not match. On failure the order is left untouched.
func (o *Order) Apply(c Change) error {
	if err := c.Validate(); err != nil {
		return err
	}

	next, err := o.status.Next(c.Transition())
	if err != nil {
		return errs.NewConflictErrorWithCause("order", o.id, "order has moved on", err)
	}

	actorID := c.Actor().ID()
	switch c.Transition() {
	case StoreAccept, StoreReject:
		if !o.storeID.IsEqual(actorID) {
			return errs.NewConflictError("order", o.id, "order belongs to another store")
		}
	case CustomerCancel:
		if !o.customerID.IsEqual(actorID) {
			return errs.NewConflictError("order", o.id, "order belongs to another customer")
		}
	case RiderClaim:
		if o.riderID != nil {
			return errs.NewConflictError("order", o.id, "order is already claimed")
		}
	case RiderPickUp, RiderDeliver:
		if o.riderID == nil || !o.riderID.IsEqual(actorID) {
			return errs.NewConflictError("order", o.id, "order is assigned to another rider")
		}
	case UnknownTransition:
		return c.Transition().Validate()
	}

	if c.Transition() == RiderDeliver && !o.deliveryCode.Matches(c.code) {
		return errs.NewInvalidCredentialError("delivery code")
	}

	at := c.At()
	switch next {
	case Accepted:
		o.timeline.AcceptedAt = &at
	case RiderAssigned:
		rider := actorID
		o.riderID = &rider
		o.timeline.RiderAssignedAt = &at
	case OutForDelivery:
		o.timeline.OutForDeliveryAt = &at
	case Delivered:
		o.timeline.DeliveredAt = &at
	case Cancelled:
		o.timeline.CancelledAt = &at
	case Unknown, Placed:
	}
	o.status = next
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setDeliveryCode(code DeliveryCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	o.deliveryCode = code
	return nil
}

func (o *Order) setParticipants(customerID, storeID kernel.UUID) error {
	var customerErr, storeErr error
	if err := customerID.Validate(); err != nil {
		customerErr = errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	if err := storeID.Validate(); err != nil {
		storeErr = errs.NewValueIsRequiredErrorWithCause("storeId", err)
	}
	if err := errors.Join(customerErr, storeErr); err != nil {
		return err
	}
	o.customerID = customerID
	o.storeID = storeID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDeliveryFee(fee kernel.Money) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	o.deliveryFee = fee
	return nil
}

func (o *Order) setCommissionRate(rate commission.Rate) error {
	if err := rate.Validate(); err != nil {
		return err
	}
	o.commissionRate = rate
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, MaxNotesLength)
	}
	o.notes = notes
	return nil
}

func (o *Order) setPlacedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	o.timeline.PlacedAt = at
	return nil
}
