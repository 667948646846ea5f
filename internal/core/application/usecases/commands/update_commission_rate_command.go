package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrUpdateCommissionRateCommandIsNotConstructed = errors.New(
	"UpdateCommissionRateCommand must be created via NewUpdateCommissionRateCommand constructor",
)

// UpdateCommissionRateCommand replaces the active commission percentage.
// Orders already placed keep the rate they were placed with.
type UpdateCommissionRateCommand struct {
	admin kernel.Actor
	rate  commission.Rate

	guard guard.ConstructorGuard
}

func NewUpdateCommissionRateCommand(admin kernel.Actor, percentage decimal.Decimal) (UpdateCommissionRateCommand, error) {
	if err := admin.Require(kernel.RoleAdmin); err != nil {
		return UpdateCommissionRateCommand{}, err
	}
	rate, err := commission.NewRate(percentage)
	if err != nil {
		return UpdateCommissionRateCommand{}, err
	}
	return UpdateCommissionRateCommand{admin: admin, rate: rate, guard: guard.NewConstructorGuard()}, nil
}

func (c *UpdateCommissionRateCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCommissionRateCommandIsNotConstructed)
}

func (c *UpdateCommissionRateCommand) Admin() kernel.Actor {
	return c.admin
}

func (c *UpdateCommissionRateCommand) Rate() commission.Rate {
	return c.rate
}
