package http

import (
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return n, nil
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req PlaceOrderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	storeID, err := kernel.UUIDFromString(req.StoreID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("storeId", err)
	}
	lines := make([]services.Line, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := kernel.UUIDFromString(item.ProductID)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("productId", err)
		}
		lines = append(lines, services.Line{ProductID: productID, Quantity: item.Quantity})
	}
	location, err := kernel.NewLocation(*req.Latitude, *req.Longitude)
	if err != nil {
		return err
	}
	address, err := order.NewAddress(req.DeliveryAddress, location)
	if err != nil {
		return err
	}

	cmd, err := commands.NewPlaceOrderCommand(actor, storeID, lines, address, req.Notes)
	if err != nil {
		return err
	}
	result, err := s.h.PlaceOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	view, err := queries.NewOrderView(result.Order, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, PlaceOrderResponse{
		Order: view,
		Payment: PaymentInit{
			Handle:   result.PaymentHandle,
			Amount:   result.Order.Total().String(),
			Currency: s.cfg.PaymentCurrency,
			KeyID:    s.cfg.PaymentKeyID,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id for every role.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return s.respondWithOrder(c, actor, id)
}

// ListOrders handles the customer, store and admin order lists; the query
// scopes the rows by the caller's role.
func (s *Server) ListOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(actor, c.QueryParam("status"), limit, offset)
	if err != nil {
		return err
	}
	views, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	return s.transition(c, commands.NewCancelOrderCommand)
}

// AcceptOrder handles POST /api/v1/store/orders/:id/accept.
func (s *Server) AcceptOrder(c echo.Context) error {
	return s.transition(c, commands.NewAcceptOrderCommand)
}

// RejectOrder handles POST /api/v1/store/orders/:id/reject.
func (s *Server) RejectOrder(c echo.Context) error {
	return s.transition(c, commands.NewRejectOrderCommand)
}

// PickUpOrder handles POST /api/v1/rider/orders/:id/pickup.
func (s *Server) PickUpOrder(c echo.Context) error {
	return s.transition(c, commands.NewPickUpOrderCommand)
}

func (s *Server) transition(
	c echo.Context,
	newCommand func(kernel.Actor, kernel.UUID) (commands.TransitionOrderCommand, error),
) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := newCommand(actor, id)
	if err != nil {
		return err
	}
	if err = s.h.TransitionOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(c, actor, id)
}

// VerifyPayment handles POST /api/v1/orders/:id/payment/verify.
func (s *Server) VerifyPayment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req VerifyPaymentRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewVerifyPaymentCommand(actor, id, req.PaymentID, req.Signature)
	if err != nil {
		return err
	}
	p, err := s.h.VerifyPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newPaymentView(p))
}

// respondWithOrder answers a successful write with the order as the caller
// now sees it.
func (s *Server) respondWithOrder(c echo.Context, actor kernel.Actor, id kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(actor, id)
	if err != nil {
		return err
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
