package order

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const DeliveryCodeLength = 6

var (
	ErrDeliveryCodeIsNotConstructed = errs.NewValueIsRequiredError("delivery code must be created via NewDeliveryCode or DeliveryCodeFromString")

	deliveryCodePattern = regexp.MustCompile(`^[0-9]{6}$`)
	deliveryCodeSpace   = big.NewInt(1_000_000)
)

// DeliveryCode is the 6-digit secret the customer hands to the rider to prove
// the handoff. It lives on the order row for the lifetime of the order.
type DeliveryCode struct { //nolint:recvcheck //using for validation
	value string
	guard guard.ConstructorGuard
}

// NewDeliveryCode draws a code uniformly from 000000..999999.
func NewDeliveryCode() (DeliveryCode, error) {
	n, err := rand.Int(rand.Reader, deliveryCodeSpace)
	if err != nil {
		return DeliveryCode{}, fmt.Errorf("generate delivery code: %w", err)
	}
	return DeliveryCode{value: fmt.Sprintf("%06d", n.Int64()), guard: guard.NewConstructorGuard()}, nil
}

// DeliveryCodeFromString accepts exactly six ASCII digits.
func DeliveryCodeFromString(s string) (DeliveryCode, error) {
	if !deliveryCodePattern.MatchString(s) {
		return DeliveryCode{}, errs.NewValueIsInvalidErrorWithCause(
			"delivery code", fmt.Errorf("must be %d digits", DeliveryCodeLength))
	}
	return DeliveryCode{value: s, guard: guard.NewConstructorGuard()}, nil
}

func (c DeliveryCode) Validate() error {
	return c.guard.Validate(ErrDeliveryCodeIsNotConstructed)
}

// Matches compares in constant time.
func (c DeliveryCode) Matches(submitted DeliveryCode) bool {
	return subtle.ConstantTimeCompare([]byte(c.value), []byte(submitted.value)) == 1
}

func (c DeliveryCode) String() string {
	return c.value
}
