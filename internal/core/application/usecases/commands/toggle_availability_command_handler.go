package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
)

// ToggleAvailabilityCommandHandler flips the rider's availability flag.
// Going available while holding a RIDER_ASSIGNED or OUT_FOR_DELIVERY order is
// a ConflictError; going unavailable always succeeds. The check is repeated
// by the conditional write, so a claim racing the toggle cannot leave a busy
// rider available.
type ToggleAvailabilityCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewToggleAvailabilityCommandHandler(uowFactory RiderUoWFactory) (ToggleAvailabilityCommandHandler, error) {
	if uowFactory == nil {
		return ToggleAvailabilityCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	return ToggleAvailabilityCommandHandler{uowFactory: uowFactory}, nil
}

func (h ToggleAvailabilityCommandHandler) Handle(
	ctx context.Context,
	command ToggleAvailabilityCommand,
) (*rider.Rider, error) {
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

	r, err := riderRepo.Get(ctx, command.Rider().ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewNotPermittedError("rider", "rider profile is not registered")
	}
	if err != nil {
		return nil, err
	}

	busy, err := riderRepo.HasActiveDelivery(ctx, r.ID())
	if err != nil {
		return nil, err
	}

	if err = r.SetAvailability(command.Available(), busy); err != nil {
		return nil, err
	}

	if err = riderRepo.SaveAvailability(ctx, r); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return r, nil
}
