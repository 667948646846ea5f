// Package http exposes the order lifecycle over a JSON API under /api/v1
// and the push subscription endpoint at /ws.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers are the use cases the API calls.
type Handlers struct {
	PlaceOrder           commands.PlaceOrderCommandHandler
	TransitionOrder      commands.TransitionOrderCommandHandler
	ClaimOrder           commands.ClaimOrderCommandHandler
	DeliverOrder         commands.DeliverOrderCommandHandler
	RegisterRider        commands.RegisterRiderCommandHandler
	ToggleAvailability   commands.ToggleAvailabilityCommandHandler
	ApproveRider         commands.ApproveRiderCommandHandler
	UpdateCommissionRate commands.UpdateCommissionRateCommandHandler
	VerifyPayment        commands.VerifyPaymentCommandHandler

	GetOrder              queries.GetOrderQueryHandler
	ListOrders            queries.ListOrdersQueryHandler
	ListClaimableOrders   queries.ListClaimableOrdersQueryHandler
	GetRiderActiveOrder   queries.GetRiderActiveOrderQueryHandler
	GetEarnings           queries.GetEarningsQueryHandler
	GetAdminDashboard     queries.GetAdminDashboardQueryHandler
	GetCommissionRate     queries.GetCommissionRateQueryHandler
	ListCommissionHistory queries.ListCommissionHistoryQueryHandler
}

// Subscriber holds a websocket connection open for an authenticated actor.
type Subscriber interface {
	Serve(w http.ResponseWriter, r *http.Request, actor kernel.Actor) error
}

type Config struct {
	JWTSecret       []byte
	PaymentKeyID    string
	PaymentCurrency string
}

// Server implements the API handlers. It coordinates between HTTP and the
// application use cases.
type Server struct {
	h          Handlers
	subscriber Subscriber
	cfg        Config
}

func NewServer(h Handlers, subscriber Subscriber, cfg Config) *Server {
	return &Server{h: h, subscriber: subscriber, cfg: cfg}
}

// NewEcho builds the echo instance with the error handler, validator and
// access log every route shares.
func NewEcho(logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(logger)
	e.Validator = newRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.Round(time.Microsecond).String(),
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error.Error())
			}
			logger.InfoContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	}))
	return e
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/ws", s.Subscribe)

	api := e.Group("/api/v1", JWTAuth(s.cfg.JWTSecret))
	api.GET("/orders/:id", s.GetOrder)

	customer := api.Group("/orders", RequireRole(kernel.RoleCustomer))
	customer.POST("", s.PlaceOrder)
	customer.GET("", s.ListOrders)
	customer.POST("/:id/cancel", s.CancelOrder)
	customer.POST("/:id/payment/verify", s.VerifyPayment)

	store := api.Group("/store", RequireRole(kernel.RoleStore))
	store.GET("/orders", s.ListOrders)
	store.POST("/orders/:id/accept", s.AcceptOrder)
	store.POST("/orders/:id/reject", s.RejectOrder)
	store.GET("/earnings", s.GetEarnings)

	rider := api.Group("/rider", RequireRole(kernel.RoleRider))
	rider.POST("/profile", s.RegisterRider)
	rider.GET("/orders/available", s.ListClaimableOrders)
	rider.GET("/orders/active", s.GetActiveOrder)
	rider.POST("/orders/:id/claim", s.ClaimOrder)
	rider.POST("/orders/:id/pickup", s.PickUpOrder)
	rider.POST("/orders/:id/deliver", s.DeliverOrder)
	rider.PUT("/availability", s.ToggleAvailability)
	rider.GET("/earnings", s.GetEarnings)

	admin := api.Group("/admin", RequireRole(kernel.RoleAdmin))
	admin.GET("/orders", s.ListOrders)
	admin.GET("/commission", s.GetCommissionRate)
	admin.PUT("/commission", s.UpdateCommissionRate)
	admin.GET("/commission/history", s.ListCommissionHistory)
	admin.POST("/riders/:id/approve", s.ApproveRider)
	admin.GET("/dashboard", s.GetAdminDashboard)
}

// Subscribe handles GET /ws?token= - the token travels in the query because
// browsers cannot set headers on a websocket handshake.
func (s *Server) Subscribe(c echo.Context) error {
	actor, err := ParseToken(s.cfg.JWTSecret, c.QueryParam("token"))
	if err != nil {
		return err
	}
	return s.subscriber.Serve(c.Response(), c.Request(), actor)
}
