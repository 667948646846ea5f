package commands

import (
	"context"

	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
)

// RegisterRiderCommandHandler stores a new rider profile. Registering twice is
// a ConflictError.
type RegisterRiderCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewRegisterRiderCommandHandler(uowFactory RiderUoWFactory) (RegisterRiderCommandHandler, error) {
	if uowFactory == nil {
		return RegisterRiderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	return RegisterRiderCommandHandler{uowFactory: uowFactory}, nil
}

func (h RegisterRiderCommandHandler) Handle(ctx context.Context, command RegisterRiderCommand) (*rider.Rider, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	r, err := rider.NewRider(command.Rider().ID(), command.Name())
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

	if err = uow.RiderRepository().Add(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}
