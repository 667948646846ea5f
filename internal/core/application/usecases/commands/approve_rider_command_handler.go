package commands

import (
	"context"

	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
)

// ApproveRiderCommandHandler marks a rider approved. Approving twice is a no-op.
type ApproveRiderCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewApproveRiderCommandHandler(uowFactory RiderUoWFactory) (ApproveRiderCommandHandler, error) {
	if uowFactory == nil {
		return ApproveRiderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	return ApproveRiderCommandHandler{uowFactory: uowFactory}, nil
}

func (h ApproveRiderCommandHandler) Handle(ctx context.Context, command ApproveRiderCommand) (*rider.Rider, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	riderRepo := uow.RiderRepository()

	r, err := riderRepo.Get(ctx, command.RiderID())
	if err != nil {
		return nil, err
	}

	r.Approve()

	if err = riderRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}
