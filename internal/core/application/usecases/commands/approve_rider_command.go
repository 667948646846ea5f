package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrApproveRiderCommandIsNotConstructed = errors.New(
	"ApproveRiderCommand must be created via NewApproveRiderCommand constructor",
)

// ApproveRiderCommand lets an admin clear a rider for dispatch.
type ApproveRiderCommand struct {
	admin   kernel.Actor
	riderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewApproveRiderCommand(admin kernel.Actor, riderID kernel.UUID) (ApproveRiderCommand, error) {
	if err := admin.Require(kernel.RoleAdmin); err != nil {
		return ApproveRiderCommand{}, err
	}
	if err := riderID.Validate(); err != nil {
		return ApproveRiderCommand{}, errs.NewValueIsRequiredErrorWithCause("riderId", err)
	}
	return ApproveRiderCommand{admin: admin, riderID: riderID, guard: guard.NewConstructorGuard()}, nil
}

func (c *ApproveRiderCommand) Validate() error {
	return c.guard.Validate(ErrApproveRiderCommandIsNotConstructed)
}

func (c *ApproveRiderCommand) Admin() kernel.Actor {
	return c.admin
}

func (c *ApproveRiderCommand) RiderID() kernel.UUID {
	return c.riderID
}
