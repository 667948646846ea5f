package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// RegisterRider handles POST /api/v1/rider/profile. The rider id is the
// token subject; the profile waits for admin approval.
func (s *Server) RegisterRider(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req RegisterRiderRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterRiderCommand(actor, req.Name)
	if err != nil {
		return err
	}
	r, err := s.h.RegisterRider.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newRiderView(r))
}

// ListClaimableOrders handles GET /api/v1/rider/orders/available.
func (s *Server) ListClaimableOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListClaimableOrdersQuery(actor)
	if err != nil {
		return err
	}
	views, err := s.h.ListClaimableOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// GetActiveOrder handles GET /api/v1/rider/orders/active.
func (s *Server) GetActiveOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetRiderActiveOrderQuery(actor)
	if err != nil {
		return err
	}
	view, err := s.h.GetRiderActiveOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ClaimOrder handles POST /api/v1/rider/orders/:id/claim. Of concurrent
// claims exactly one succeeds; the others get 409.
func (s *Server) ClaimOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewClaimOrderCommand(actor, id)
	if err != nil {
		return err
	}
	if err = s.h.ClaimOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(c, actor, id)
}

// DeliverOrder handles POST /api/v1/rider/orders/:id/deliver.
func (s *Server) DeliverOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req DeliverRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewDeliverOrderCommand(actor, id, req.Code)
	if err != nil {
		return err
	}
	if err = s.h.DeliverOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondWithOrder(c, actor, id)
}

// ToggleAvailability handles PUT /api/v1/rider/availability.
func (s *Server) ToggleAvailability(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req AvailabilityRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewToggleAvailabilityCommand(actor, *req.Available)
	if err != nil {
		return err
	}
	r, err := s.h.ToggleAvailability.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newRiderView(r))
}

// GetEarnings handles GET /api/v1/store/earnings and /api/v1/rider/earnings.
func (s *Server) GetEarnings(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetEarningsQuery(actor)
	if err != nil {
		return err
	}
	view, err := s.h.GetEarnings.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	if view.Store != nil {
		return c.JSON(http.StatusOK, view.Store)
	}
	return c.JSON(http.StatusOK, view.Rider)
}
