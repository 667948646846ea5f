// Package commission models the platform commission percentage and its
// append-only history. Exactly one history entry is active at a time; an
// update appends a new active entry and deactivates the rest.
package commission

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	MinPercentage = decimal.Zero
	MaxPercentage = decimal.NewFromInt(100)

	// PercentagePlaces matches the numeric(5,2) rate columns.
	PercentagePlaces int32 = 2

	ErrRateIsNotConstructed  = errors.New("Rate must be created via NewRate constructor")
	ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")
)

// Rate is a commission percentage in [0, 100] with at most two decimal
// places, so the stored rate reproduces the stored commission.
type Rate struct { //nolint:recvcheck //using for validation
	percentage decimal.Decimal
	guard      guard.ConstructorGuard
}

func NewRate(percentage decimal.Decimal) (Rate, error) {
	if percentage.LessThan(MinPercentage) || percentage.GreaterThan(MaxPercentage) {
		return Rate{}, errs.NewValueIsOutOfRangeError("percentage", percentage.String(), MinPercentage, MaxPercentage)
	}
	if !percentage.Equal(percentage.Round(PercentagePlaces)) {
		return Rate{}, errs.NewValueIsInvalidError("percentage")
	}
	return Rate{percentage: percentage, guard: guard.NewConstructorGuard()}, nil
}

func (r Rate) Validate() error {
	return r.guard.Validate(ErrRateIsNotConstructed)
}

func (r Rate) Percentage() decimal.Decimal {
	return r.percentage
}

// Of computes the platform cut of a subtotal. It is called once per order at
// placement and the result is stored with the order.
func (r Rate) Of(subtotal kernel.Money) kernel.Money {
	return subtotal.Percent(r.percentage)
}

func (r Rate) Equal(other Rate) bool {
	return r.percentage.Equal(other.percentage)
}

func (r Rate) String() string {
	return r.percentage.String() + "%"
}

// Entry is one row of the rate history.
type Entry struct {
	version   int64
	rate      Rate
	active    bool
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewEntry builds the entry that replaces the current head of the history.
func NewEntry(rate Rate, createdAt time.Time) (*Entry, error) {
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	if createdAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("createdAt")
	}
	return &Entry{rate: rate, active: true, createdAt: createdAt, guard: guard.NewConstructorGuard()}, nil
}

func RestoreEntry(version int64, rate Rate, active bool, createdAt time.Time) (*Entry, error) {
	if version <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}
	if err := rate.Validate(); err != nil {
		return nil, err
	}
	return &Entry{
		version:   version,
		rate:      rate,
		active:    active,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil {
		return ErrEntryIsNotConstructed
	}
	return e.guard.Validate(ErrEntryIsNotConstructed)
}

// Version is zero until the entry has been appended to the history.
func (e *Entry) Version() int64 {
	return e.version
}

func (e *Entry) Rate() Rate {
	return e.rate
}

func (e *Entry) IsActive() bool {
	return e.active
}

func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

// ActiveOr resolves the rate to snapshot: the active entry when the history
// has one, otherwise the configured fallback.
func ActiveOr(active *Entry, fallback Rate) Rate {
	if active == nil || !active.IsActive() {
		return fallback
	}
	return active.Rate()
}
