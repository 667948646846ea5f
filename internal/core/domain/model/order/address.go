package order

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const MaxAddressLength = 500

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress constructor")

// Address is where the order is dropped off.
type Address struct { //nolint:recvcheck //using for validation
	text     string
	location kernel.Location
	guard    guard.ConstructorGuard
}

func NewAddress(text string, location kernel.Location) (Address, error) {
	text = strings.TrimSpace(text)

	var textErr error
	switch {
	case text == "":
		textErr = errs.NewValueIsRequiredError("deliveryAddress")
	case len(text) > MaxAddressLength:
		textErr = errs.NewValueIsOutOfRangeError("deliveryAddress length", len(text), 1, MaxAddressLength)
	}

	if err := errors.Join(textErr, location.Validate()); err != nil {
		return Address{}, err
	}

	return Address{text: text, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Text() string {
	return a.text
}

func (a Address) Location() kernel.Location {
	return a.location
}
