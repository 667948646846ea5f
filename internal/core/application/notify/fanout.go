// Package notify pushes committed order changes to the actors involved and
// forwards the same events to the order event stream.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

const DefaultPushTimeout = 2 * time.Second

// Fanout is fire-and-forget: every send is bounded by the push timeout and
// failures are logged, never returned.
type Fanout struct {
	push      ports.PushChannel
	publisher ports.EventPublisher
	timeout   time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewFanout builds the fanout. A nil publisher disables the event stream.
func NewFanout(push ports.PushChannel, publisher ports.EventPublisher, timeout time.Duration, logger *slog.Logger) (*Fanout, error) {
	if push == nil {
		return nil, errs.NewValueIsRequiredError("push")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if timeout <= 0 {
		timeout = DefaultPushTimeout
	}
	return &Fanout{
		push:      push,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger.With("component", "notify"),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// OrderPlaced announces a new order to every store and admin subscriber.
func (f *Fanout) OrderPlaced(ctx context.Context, o *order.Order) {
	view, err := queries.NewOrderView(o, false)
	if err != nil {
		f.logger.WarnContext(ctx, "order view failed", "orderId", o.ID().String(), "error", err)
		return
	}

	event, ok := f.event(ctx, ports.EventOrderNew, o.ID(), "", view)
	if !ok {
		return
	}
	f.send(ctx, ports.RoleAudience(kernel.RoleStore), event)
	f.send(ctx, ports.RoleAudience(kernel.RoleAdmin), event)
	f.publish(ctx, event)
}

// OrderChanged sends order:update to the customer, the store, the assigned
// rider and the admins. Only the customer's copy carries the delivery code.
// Entering ACCEPTED additionally offers the order to every rider.
func (f *Fanout) OrderChanged(ctx context.Context, o *order.Order, transition order.Transition) {
	shared, err := queries.NewOrderView(o, false)
	if err != nil {
		f.logger.WarnContext(ctx, "order view failed", "orderId", o.ID().String(), "error", err)
		return
	}
	own, err := queries.NewOrderView(o, true)
	if err != nil {
		f.logger.WarnContext(ctx, "order view failed", "orderId", o.ID().String(), "error", err)
		return
	}

	event, ok := f.event(ctx, ports.EventOrderUpdate, o.ID(), transition.String(), shared)
	if !ok {
		return
	}
	if customerEvent, ok := f.event(ctx, ports.EventOrderUpdate, o.ID(), transition.String(), own); ok {
		f.send(ctx, ports.Audience{Role: kernel.RoleCustomer, ActorID: o.CustomerID()}, customerEvent)
	}
	f.send(ctx, ports.Audience{Role: kernel.RoleStore, ActorID: o.StoreID()}, event)
	if rider := o.RiderID(); rider != nil {
		f.send(ctx, ports.Audience{Role: kernel.RoleRider, ActorID: *rider}, event)
	}
	f.send(ctx, ports.RoleAudience(kernel.RoleAdmin), event)
	f.publish(ctx, event)

	if o.Status() == order.Accepted {
		f.OrderAvailable(ctx, shared)
	}
}

// OrderAvailable offers a claimable order to every rider subscriber.
func (f *Fanout) OrderAvailable(ctx context.Context, view queries.OrderView) {
	id, err := kernel.UUIDFromString(view.ID)
	if err != nil {
		f.logger.WarnContext(ctx, "bad order id in view", "orderId", view.ID, "error", err)
		return
	}

	event, ok := f.event(ctx, ports.EventOrderAvailable, id, "", view)
	if !ok {
		return
	}
	f.send(ctx, ports.RoleAudience(kernel.RoleRider), event)
	f.publish(ctx, event)
}

func (f *Fanout) event(
	ctx context.Context,
	eventType string,
	orderID kernel.UUID,
	transition string,
	view queries.OrderView,
) (ports.Event, bool) {
	payload, err := json.Marshal(view)
	if err != nil {
		f.logger.WarnContext(ctx, "order view encoding failed", "orderId", orderID.String(), "error", err)
		return ports.Event{}, false
	}
	return ports.Event{
		Type:       eventType,
		OrderID:    orderID,
		Transition: transition,
		Order:      payload,
		Timestamp:  f.now(),
	}, true
}

func (f *Fanout) send(ctx context.Context, audience ports.Audience, event ports.Event) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	if err := f.push.Push(sendCtx, audience, event); err != nil {
		f.logger.WarnContext(ctx, "push failed",
			"audience", audience.String(), "type", event.Type, "orderId", event.OrderID.String(), "error", err)
	}
}

func (f *Fanout) publish(ctx context.Context, event ports.Event) {
	if f.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	if err := f.publisher.Publish(publishCtx, event); err != nil {
		f.logger.WarnContext(ctx, "event publish failed",
			"type", event.Type, "orderId", event.OrderID.String(), "error", err)
	}
}
