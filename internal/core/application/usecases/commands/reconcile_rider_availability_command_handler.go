package commands

import (
	"context"

	"dispatch/internal/pkg/errs"
)

// ReconcileRiderAvailabilityCommandHandler runs one repair pass and reports how
// many riders it marked unavailable.
type ReconcileRiderAvailabilityCommandHandler struct {
	uowFactory RiderUoWFactory
}

func NewReconcileRiderAvailabilityCommandHandler(
	uowFactory RiderUoWFactory,
) (ReconcileRiderAvailabilityCommandHandler, error) {
	if uowFactory == nil {
		return ReconcileRiderAvailabilityCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	return ReconcileRiderAvailabilityCommandHandler{uowFactory: uowFactory}, nil
}

func (h ReconcileRiderAvailabilityCommandHandler) Handle(
	ctx context.Context,
	command ReconcileRiderAvailabilityCommand,
) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	return h.uowFactory.Create().RiderRepository().MarkBusyUnavailable(ctx)
}
