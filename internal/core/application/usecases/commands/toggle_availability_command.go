package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrToggleAvailabilityCommandIsNotConstructed = errors.New(
	"ToggleAvailabilityCommand must be created via NewToggleAvailabilityCommand constructor",
)

// ToggleAvailabilityCommand sets whether a rider wants to receive work.
type ToggleAvailabilityCommand struct {
	rider     kernel.Actor
	available bool

	guard guard.ConstructorGuard
}

func NewToggleAvailabilityCommand(rider kernel.Actor, available bool) (ToggleAvailabilityCommand, error) {
	if err := rider.Require(kernel.RoleRider); err != nil {
		return ToggleAvailabilityCommand{}, err
	}
	return ToggleAvailabilityCommand{rider: rider, available: available, guard: guard.NewConstructorGuard()}, nil
}

func (c *ToggleAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrToggleAvailabilityCommandIsNotConstructed)
}

func (c *ToggleAvailabilityCommand) Rider() kernel.Actor {
	return c.rider
}

func (c *ToggleAvailabilityCommand) Available() bool {
	return c.available
}
