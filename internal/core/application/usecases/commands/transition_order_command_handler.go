package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// TransitionOrderCommandHandler applies accept, reject, cancel and pick-up.
//
// The order is loaded, the change applied to the aggregate and written back
// with a conditional update against the state that was loaded. If another
// actor moved the order in between, the update matches no row and the handler
// returns a ConflictError without notifying anyone.
//
// Example:
//
//	cmd, _ := NewAcceptOrderCommand(store, orderID)
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrConflict) {
//	    // already accepted, rejected or cancelled
//	}
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	notifier   Notifier
}

func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	notifier Notifier,
) (TransitionOrderCommandHandler, error) {
	if uowFactory == nil {
		return TransitionOrderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if notifier == nil {
		return TransitionOrderCommandHandler{}, errs.NewValueIsRequiredError("notifier")
	}
	return TransitionOrderCommandHandler{uowFactory: uowFactory, notifier: notifier}, nil
}

func (h TransitionOrderCommandHandler) Handle(ctx context.Context, command TransitionOrderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	change, err := order.NewChange(command.Transition(), command.Actor(), clock())
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

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.OrderChanged(ctx, o, command.Transition())

	return nil
}
