package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterRiderCommandIsNotConstructed = errors.New(
	"RegisterRiderCommand must be created via NewRegisterRiderCommand constructor",
)

// RegisterRiderCommand creates the dispatch profile of an authenticated rider.
// The profile starts unapproved and unavailable.
type RegisterRiderCommand struct {
	rider kernel.Actor
	name  string

	guard guard.ConstructorGuard
}

func NewRegisterRiderCommand(r kernel.Actor, name string) (RegisterRiderCommand, error) {
	if err := r.Require(kernel.RoleRider); err != nil {
		return RegisterRiderCommand{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return RegisterRiderCommand{}, rider.ErrNameIsRequired
	}
	if len(name) > rider.MaxNameLength {
		return RegisterRiderCommand{}, errs.NewValueIsOutOfRangeError("name", len(name), 1, rider.MaxNameLength)
	}
	return RegisterRiderCommand{rider: r, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (c *RegisterRiderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterRiderCommandIsNotConstructed)
}

func (c *RegisterRiderCommand) Rider() kernel.Actor {
	return c.rider
}

func (c *RegisterRiderCommand) Name() string {
	return c.name
}
