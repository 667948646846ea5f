package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// DeliverOrderCommandHandler completes a delivery.
//
// In one transaction the order moves OUT_FOR_DELIVERY -> DELIVERED, the
// rider's lifetime counter grows by one and the rider becomes available again.
// A wrong code is an InvalidCredentialError and nothing is written; there is
// no attempt counter. Submitting the right code again after delivery is a
// ConflictError, so the counter moves exactly once per order.
type DeliverOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	notifier   Notifier
}

func NewDeliverOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	notifier Notifier,
) (DeliverOrderCommandHandler, error) {
	if uowFactory == nil {
		return DeliverOrderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if notifier == nil {
		return DeliverOrderCommandHandler{}, errs.NewValueIsRequiredError("notifier")
	}
	return DeliverOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}, nil
}

func (h DeliverOrderCommandHandler) Handle(ctx context.Context, command DeliverOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	change, err := order.NewDeliveryChange(command.Rider(), command.Code(), clock())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	riderRepo := uow.RiderRepository()

	o, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	expected := o.Precondition()
	if err = o.Apply(change); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o, expected); err != nil {
		return err
	}

	r, err := riderRepo.Get(ctx, command.Rider().ID())
	if err != nil {
		return err
	}

	r.RecordDelivery()
	if err = riderRepo.RecordDelivery(ctx, r); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.OrderChanged(ctx, o, order.RiderDeliver)

	return nil
}
