package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// numberAttempts bounds how many fresh numbers placement draws when the
// stored ones collide.
const numberAttempts = 3

// PlacementPolicy holds the configured values snapshotted into every new order.
type PlacementPolicy struct {
	DeliveryFee       kernel.Money
	DefaultCommission commission.Rate
}

func (p PlacementPolicy) Validate() error {
	return errors.Join(p.DeliveryFee.Validate(), p.DefaultCommission.Validate())
}

// PlaceOrderResult is what the customer needs to continue to payment.
type PlaceOrderResult struct {
	Order         *order.Order
	PaymentHandle string
}

// PlaceOrderCommandHandler creates an order with its items and pending payment
// in one transaction.
//
// The handler:
//   - reads the store and products inside the transaction
//   - prices the lines against the catalog (stock is checked, never decremented)
//   - snapshots the delivery fee and the commission rate in force
//   - opens a payment with the gateway for the order total
//   - notifies stores once the transaction has committed
//
// Any failure, including an UpstreamError from the gateway, leaves nothing
// persisted.
type PlaceOrderCommandHandler struct {
	uowFactory PlacementUoWFactory
	gateway    ports.PaymentGateway
	notifier   Notifier
	policy     PlacementPolicy
	pricer     services.OrderPricer
}

func NewPlaceOrderCommandHandler(
	uowFactory PlacementUoWFactory,
	gateway ports.PaymentGateway,
	notifier Notifier,
	policy PlacementPolicy,
) (PlaceOrderCommandHandler, error) {
	if uowFactory == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("uowFactory")
	}
	if gateway == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("gateway")
	}
	if notifier == nil {
		return PlaceOrderCommandHandler{}, errs.NewValueIsRequiredError("notifier")
	}
	if err := policy.Validate(); err != nil {
		return PlaceOrderCommandHandler{}, err
	}
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		notifier:   notifier,
		policy:     policy,
		pricer:     services.NewOrderPricer(),
	}, nil
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, command PlaceOrderCommand) (PlaceOrderResult, error) {
	if err := command.Validate(); err != nil {
		return PlaceOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	store, err := uow.Catalog().GetStore(ctx, command.StoreID())
	if err != nil {
		return PlaceOrderResult{}, err
	}

	products, err := uow.Catalog().GetProducts(ctx, command.ProductIDs())
	if err != nil {
		return PlaceOrderResult{}, err
	}

	items, err := h.pricer.Price(store, products, command.Lines())
	if err != nil {
		return PlaceOrderResult{}, err
	}

	active, err := uow.CommissionRepository().Active(ctx)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	code, err := order.NewDeliveryCode()
	if err != nil {
		return PlaceOrderResult{}, err
	}

	now := clock()
	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(now), code, order.Draft{
		CustomerID:  command.Customer().ID(),
		StoreID:     store.ID,
		Items:       items,
		DeliveryFee: h.policy.DeliveryFee,
		Commission:  commission.ActiveOr(active, h.policy.DefaultCommission),
		Address:     command.Address(),
		Notes:       command.Notes(),
	}, now)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	if err = h.addOrder(ctx, uow, o); err != nil {
		return PlaceOrderResult{}, err
	}

	handle, err := h.gateway.CreatePayment(ctx, o.ID(), o.Total())
	if err != nil {
		return PlaceOrderResult{}, err
	}

	p, err := payment.NewPayment(kernel.NewUUID(), o.ID(), handle, o.Total(), now)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	if err = uow.PaymentRepository().Add(ctx, p); err != nil {
		return PlaceOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PlaceOrderResult{}, err
	}

	h.notifier.OrderPlaced(ctx, o)

	return PlaceOrderResult{Order: o, PaymentHandle: handle}, nil
}

func (h PlaceOrderCommandHandler) addOrder(ctx context.Context, uow PlacementUoW, o *order.Order) error {
	for attempt := 1; ; attempt++ {
		err := uow.OrderRepository().Add(ctx, o)
		if !errors.Is(err, order.ErrNumberTaken) || attempt == numberAttempts {
			return err
		}
		if err = o.Renumber(order.NewNumber(clock())); err != nil {
			return err
		}
	}
}
