package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	PLACED ──accept──> ACCEPTED ──claim──> RIDER_ASSIGNED ──pick up──> OUT_FOR_DELIVERY ──deliver──> DELIVERED
//	   │
//	   └──reject / cancel──> CANCELLED
//
// CANCELLED and DELIVERED are terminal.
type Status int

const (
	// Unknown catches uninitialized values and is never persisted.
	Unknown Status = iota
	Placed
	Accepted
	RiderAssigned
	OutForDelivery
	Delivered
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Placed:         "PLACED",
		Accepted:       "ACCEPTED",
		RiderAssigned:  "RIDER_ASSIGNED",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
	}
}

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Placed, Accepted, RiderAssigned, OutForDelivery, Delivered, Cancelled}
}

// ParseStatus resolves the wire name of a status, e.g. "OUT_FOR_DELIVERY".
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses() {
		if status.String() == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s < Placed || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActiveDelivery reports whether a rider is currently working on the order.
func (s Status) IsActiveDelivery() bool {
	return s == RiderAssigned || s == OutForDelivery
}

// Next returns the status reached by t, or a ConflictError when t is not
// allowed from s.
func (s Status) Next(t Transition) (Status, error) {
	if err := t.Validate(); err != nil {
		return Unknown, err
	}
	if s != t.From() {
		return Unknown, errs.NewConflictError("status", s.String(),
			fmt.Sprintf("%s requires %s", t.String(), t.From().String()))
	}
	return t.To(), nil
}

// ValidateCanHaveRider checks that the rider reference agrees with the
// status: unset before the claim, set from the claim onwards. A cancelled
// order never had a rider since cancellation is only reachable from PLACED.
func (s Status) ValidateCanHaveRider(rider bool) error {
	needsRider := s == RiderAssigned || s == OutForDelivery || s == Delivered
	if rider && !needsRider {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a rider", s.String()),
		)
	}
	if !rider && needsRider {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no rider", s.String()),
		)
	}
	return nil
}
