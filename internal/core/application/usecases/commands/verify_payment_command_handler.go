package commands

import (
	"context"

	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// VerifyPaymentCommandHandler checks the gateway signature and marks the
// order's payment PAID.
//
// Only the customer who placed the order may verify it; anyone else sees the
// order as missing. A bad signature is an InvalidCredentialError, verifying a
// paid order again is a ConflictError.
type VerifyPaymentCommandHandler struct {
	uowFactory PaymentUoWFactory
	gateway    ports.PaymentGateway
}

func NewVerifyPaymentCommandHandler(
	uowFactory PaymentUoWFactory,
	gateway ports.PaymentGateway,
) (VerifyPaymentCommandHandler, error) {
	if uowFactory == nil {
		return VerifyPaymentCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if gateway == nil {
		return VerifyPaymentCommandHandler{}, errs.NewValueIsRequiredError("gateway")
	}
	return VerifyPaymentCommandHandler{uowFactory: uowFactory, gateway: gateway}, nil
}

func (h VerifyPaymentCommandHandler) Handle(ctx context.Context, command VerifyPaymentCommand) (*payment.Payment, error) {
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

	o, err := uow.OrderRepository().Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.CustomerID().IsEqual(command.Customer().ID()) {
		return nil, errs.NewObjectNotFoundError("order", command.OrderID().String())
	}

	paymentRepo := uow.PaymentRepository()

	p, err := paymentRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}

	if err = h.gateway.VerifySignature(p.Handle(), command.PaymentID(), command.Signature()); err != nil {
		return nil, err
	}

	if err = p.MarkPaid(command.PaymentID(), clock()); err != nil {
		return nil, err
	}

	if err = paymentRepo.MarkPaid(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
