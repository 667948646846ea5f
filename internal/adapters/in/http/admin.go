package http

import (
	"net/http"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// GetCommissionRate handles GET /api/v1/admin/commission.
func (s *Server) GetCommissionRate(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetCommissionRateQuery(actor)
	if err != nil {
		return err
	}
	view, err := s.h.GetCommissionRate.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateCommissionRate handles PUT /api/v1/admin/commission. Orders already
// placed keep the rate they were placed with.
func (s *Server) UpdateCommissionRate(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CommissionRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateCommissionRateCommand(actor, *req.Percentage)
	if err != nil {
		return err
	}
	entry, err := s.h.UpdateCommissionRate.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newCommissionView(entry))
}

// ListCommissionHistory handles GET /api/v1/admin/commission/history.
func (s *Server) ListCommissionHistory(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewListCommissionHistoryQuery(actor)
	if err != nil {
		return err
	}
	views, err := s.h.ListCommissionHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// ApproveRider handles POST /api/v1/admin/riders/:id/approve.
func (s *Server) ApproveRider(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewApproveRiderCommand(actor, id)
	if err != nil {
		return err
	}
	r, err := s.h.ApproveRider.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newRiderView(r))
}

// GetAdminDashboard handles GET /api/v1/admin/dashboard.
func (s *Server) GetAdminDashboard(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetAdminDashboardQuery(actor)
	if err != nil {
		return err
	}
	view, err := s.h.GetAdminDashboard.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
