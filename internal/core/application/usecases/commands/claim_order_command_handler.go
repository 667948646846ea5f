package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"
)

// ClaimOrderCommandHandler binds an accepted order to the claiming rider.
//
// Exactly one of several concurrent claimants succeeds: the order row is
// written only while it is still ACCEPTED without a rider and the rider holds
// no other active delivery. Losers get a ConflictError and nothing changes for
// them.
//
// After the claim commits the rider is marked unavailable outside the
// transaction. That write may fail; it is logged and the claim stands. The
// rider can repair it with the availability toggle and the reconcile job
// repairs it periodically.
type ClaimOrderCommandHandler struct {
	dispatchFactory DispatchUoWFactory
	riderFactory    RiderUoWFactory
	notifier        Notifier
	logger          *slog.Logger
}

func NewClaimOrderCommandHandler(
	dispatchFactory DispatchUoWFactory,
	riderFactory RiderUoWFactory,
	notifier Notifier,
	logger *slog.Logger,
) (ClaimOrderCommandHandler, error) {
	if dispatchFactory == nil {
		return ClaimOrderCommandHandler{}, errs.NewValueIsRequiredError("dispatchFactory")
	}
	if riderFactory == nil {
		return ClaimOrderCommandHandler{}, errs.NewValueIsRequiredError("riderFactory")
	}
	if notifier == nil {
		return ClaimOrderCommandHandler{}, errs.NewValueIsRequiredError("notifier")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return ClaimOrderCommandHandler{
		dispatchFactory: dispatchFactory,
		riderFactory:    riderFactory,
		notifier:        notifier,
		logger:          logger.With("component", "claim_order"),
	}, nil
}

func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	change, err := order.NewChange(order.RiderClaim, command.Rider(), clock())
	if err != nil {
		return err
	}

	o, r, err := h.claim(ctx, command, change)
	if err != nil {
		return err
	}

	h.markUnavailable(ctx, r)
	h.notifier.OrderChanged(ctx, o, order.RiderClaim)

	return nil
}

func (h ClaimOrderCommandHandler) claim(
	ctx context.Context,
	command ClaimOrderCommand,
	change order.Change,
) (*order.Order, *rider.Rider, error) {
	uow := h.dispatchFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	r, err := uow.RiderRepository().Get(ctx, command.Rider().ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil, errs.NewNotPermittedError("rider", "rider profile is not registered")
	}
	if err != nil {
		return nil, nil, err
	}

	if err = r.CanDispatch(); err != nil {
		return nil, nil, err
	}

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, nil, err
	}

	expected := o.Precondition()
	if err = o.Apply(change); err != nil {
		return nil, nil, err
	}

	if err = orderRepo.Update(ctx, o, expected); err != nil {
		return nil, nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, nil, err
	}

	return o, r, nil
}

func (h ClaimOrderCommandHandler) markUnavailable(ctx context.Context, r *rider.Rider) {
	r.MarkUnavailable()

	if err := h.riderFactory.Create().RiderRepository().SaveAvailability(ctx, r); err != nil {
		h.logger.WarnContext(ctx, "rider left available after claim",
			"rider_id", r.ID().String(),
			"error", err,
		)
	}
}
