package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"dispatch/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^ORD[0-9]{13,}$`)

// ErrNumberTaken is reported by storage when another order already holds the
// same Number. Callers draw a fresh one and try again.
var ErrNumberTaken = errors.New("order number is already taken")

// Number is the human readable order reference shown to customers and
// stores: "ORD", the placement time in unix milliseconds and three random
// digits. Uniqueness is enforced by storage.
type Number string

func NewNumber(placedAt time.Time) Number {
	return Number(fmt.Sprintf("ORD%d%03d", placedAt.UnixMilli(), rand.IntN(1000))) //nolint:gosec // not a secret
}

func NumberFromString(s string) (Number, error) {
	n := Number(s)
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Number) Validate() error {
	if !numberPattern.MatchString(string(n)) {
		return errs.NewValueIsInvalidErrorWithCause("order number", fmt.Errorf("%q has the wrong format", string(n)))
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
