package commands

import (
	"context"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/pkg/errs"
)

// UpdateCommissionRateCommandHandler appends a new active entry to the rate
// history and deactivates the previous head in the same transaction. Two
// concurrent updates cannot both leave an active row: the loser gets a
// ConflictError.
type UpdateCommissionRateCommandHandler struct {
	uowFactory CommissionUoWFactory
}

func NewUpdateCommissionRateCommandHandler(uowFactory CommissionUoWFactory) (UpdateCommissionRateCommandHandler, error) {
	if uowFactory == nil {
		return UpdateCommissionRateCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	return UpdateCommissionRateCommandHandler{uowFactory: uowFactory}, nil
}

func (h UpdateCommissionRateCommandHandler) Handle(
	ctx context.Context,
	command UpdateCommissionRateCommand,
) (*commission.Entry, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	entry, err := commission.NewEntry(command.Rate(), clock())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	stored, err := uow.CommissionRepository().Replace(ctx, entry)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return stored, nil
}
