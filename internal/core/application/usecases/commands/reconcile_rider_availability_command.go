package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrReconcileRiderAvailabilityCommandIsNotConstructed = errors.New(
	"ReconcileRiderAvailabilityCommand must be created via NewReconcileRiderAvailabilityCommand constructor",
)

// ReconcileRiderAvailabilityCommand repairs riders that hold an active delivery
// but are still flagged available, which happens when the write after a claim
// fails. It is issued by a scheduled job.
type ReconcileRiderAvailabilityCommand struct {
	guard guard.ConstructorGuard
}

func NewReconcileRiderAvailabilityCommand() ReconcileRiderAvailabilityCommand {
	return ReconcileRiderAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *ReconcileRiderAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrReconcileRiderAvailabilityCommandIsNotConstructed)
}
