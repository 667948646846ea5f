package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dispatch/cmd"
	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/payment"
	"dispatch/internal/adapters/out/postgres/postgrestest"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

const (
	jwtSecret     = "lifecycle-secret"
	paymentSecret = "gateway-secret"
)

// LifecycleIntegrationTestSuite drives one order from placement to delivery
// through the HTTP API wired by the composition root.
type LifecycleIntegrationTestSuite struct {
	suite.Suite
	pg  *postgrestest.Database
	app *cmd.CompositionRoot
	e   *echo.Echo

	storeID, biryaniID, lassiID kernel.UUID
	customer, store, admin      kernel.Actor
	riderA, riderB              kernel.Actor
}

func TestLifecycleIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleIntegrationTestSuite))
}

func (suite *LifecycleIntegrationTestSuite) SetupSuite() {
	pg, err := postgrestest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *LifecycleIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *LifecycleIntegrationTestSuite) SetupTest() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.pg.Truncate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := cmd.NewCompositionRoot(cmd.Config{
		JWTSecret:             jwtSecret,
		DeliveryFee:           "50",
		DefaultCommissionRate: "15",
		PaymentSecret:         paymentSecret,
		PaymentCurrency:       "INR",
		PushTimeout:           time.Second,
		RebroadcastAfter:      time.Minute,
	}, suite.pg.DB, logger)
	suite.Require().NoError(err)
	suite.app = app

	server, err := app.Server()
	suite.Require().NoError(err)
	suite.e = httpin.NewEcho(logger)
	server.Register(suite.e)

	suite.storeID = kernel.NewUUID()
	suite.biryaniID = kernel.NewUUID()
	suite.lassiID = kernel.NewUUID()
	suite.Require().NoError(suite.pg.SeedStore(ctx, suite.storeID, "Star Kabab"))
	suite.Require().NoError(suite.pg.SeedProduct(ctx, suite.biryaniID, suite.storeID, "Biryani", suite.money("100"), 10))
	suite.Require().NoError(suite.pg.SeedProduct(ctx, suite.lassiID, suite.storeID, "Lassi", suite.money("50"), 10))

	suite.customer = suite.actor(kernel.NewUUID(), kernel.RoleCustomer)
	suite.store = suite.actor(suite.storeID, kernel.RoleStore)
	suite.admin = suite.actor(kernel.NewUUID(), kernel.RoleAdmin)
	suite.riderA = suite.actor(kernel.NewUUID(), kernel.RoleRider)
	suite.riderB = suite.actor(kernel.NewUUID(), kernel.RoleRider)
	suite.Require().NoError(suite.pg.SeedRider(ctx, suite.riderA.ID(), "Rahim"))
	suite.Require().NoError(suite.pg.SeedRider(ctx, suite.riderB.ID(), "Karim"))
}

func (suite *LifecycleIntegrationTestSuite) TearDownTest() {
	suite.Require().NoError(suite.app.Close())
}

func (suite *LifecycleIntegrationTestSuite) money(s string) kernel.Money {
	m, err := kernel.MoneyFromString(s)
	suite.Require().NoError(err)
	return m
}

func (suite *LifecycleIntegrationTestSuite) actor(id kernel.UUID, role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(id, role)
	suite.Require().NoError(err)
	return a
}

func (suite *LifecycleIntegrationTestSuite) token(a kernel.Actor) string {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, httpin.Claims{
		Role: string(a.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.ID().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(jwtSecret))
	suite.Require().NoError(err)
	return raw
}

func (suite *LifecycleIntegrationTestSuite) call(a kernel.Actor, method, target string, body any) *httptest.ResponseRecorder {
	var payload io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		payload = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+suite.token(a))
	rec := httptest.NewRecorder()
	suite.e.ServeHTTP(rec, req)
	return rec
}

func (suite *LifecycleIntegrationTestSuite) decode(rec *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), into), rec.Body.String())
}

func (suite *LifecycleIntegrationTestSuite) placeOrder() httpin.PlaceOrderResponse {
	lat, lng := 23.78, 90.41
	rec := suite.call(suite.customer, http.MethodPost, "/api/v1/orders", httpin.PlaceOrderRequest{
		StoreID: suite.storeID.String(),
		Items: []httpin.PlaceOrderItem{
			{ProductID: suite.biryaniID.String(), Quantity: 2},
			{ProductID: suite.lassiID.String(), Quantity: 1},
		},
		DeliveryAddress: "House 12, Road 4, Gulshan",
		Latitude:        &lat,
		Longitude:       &lng,
	})
	suite.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var placed httpin.PlaceOrderResponse
	suite.decode(rec, &placed)
	return placed
}

func (suite *LifecycleIntegrationTestSuite) order(a kernel.Actor, id string) queries.OrderView {
	rec := suite.call(a, http.MethodGet, "/api/v1/orders/"+id, nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var view queries.OrderView
	suite.decode(rec, &view)
	return view
}

func (suite *LifecycleIntegrationTestSuite) TestOrderLifecycle() {
	placed := suite.placeOrder()
	id := placed.Order.ID

	suite.Equal("PLACED", placed.Order.Status)
	suite.Equal("250.00", placed.Order.Subtotal)
	suite.Equal("50.00", placed.Order.DeliveryFee)
	suite.Equal("37.50", placed.Order.Commission)
	suite.Equal("300.00", placed.Order.Total)
	suite.Len(placed.Order.DeliveryCode, 6)
	suite.Equal("300.00", placed.Payment.Amount)
	suite.Equal("INR", placed.Payment.Currency)
	suite.NotEmpty(placed.Payment.Handle)

	suite.Empty(suite.order(suite.store, id).DeliveryCode, "only the customer sees the code")

	rec := suite.call(suite.store, http.MethodPost, "/api/v1/store/orders/"+id+"/accept", nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = suite.call(suite.riderA, http.MethodGet, "/api/v1/rider/orders/available", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var claimable []queries.OrderView
	suite.decode(rec, &claimable)
	suite.Require().Len(claimable, 1)
	suite.Equal(id, claimable[0].ID)

	// Both riders claim at once; exactly one wins.
	codes := make(map[kernel.UUID]int, 2)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, r := range []kernel.Actor{suite.riderA, suite.riderB} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code := suite.call(r, http.MethodPost, "/api/v1/rider/orders/"+id+"/claim", nil).Code
			mu.Lock()
			codes[r.ID()] = code
			mu.Unlock()
		}()
	}
	wg.Wait()

	winner, loser := suite.riderA, suite.riderB
	if codes[suite.riderB.ID()] == http.StatusOK {
		winner, loser = suite.riderB, suite.riderA
	}
	suite.Require().Equal(http.StatusOK, codes[winner.ID()])
	suite.Require().Equal(http.StatusConflict, codes[loser.ID()])

	assigned := suite.order(suite.customer, id)
	suite.Equal("RIDER_ASSIGNED", assigned.Status)
	suite.Require().NotNil(assigned.RiderID)
	suite.Equal(winner.ID().String(), *assigned.RiderID)

	rec = suite.call(loser, http.MethodPost, "/api/v1/rider/orders/"+id+"/pickup", nil)
	suite.Equal(http.StatusConflict, rec.Code, "only the assigned rider may pick up")

	rec = suite.call(winner, http.MethodPost, "/api/v1/rider/orders/"+id+"/pickup", nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	wrong := "000000"
	if placed.Order.DeliveryCode == wrong {
		wrong = "111111"
	}
	rec = suite.call(winner, http.MethodPost, "/api/v1/rider/orders/"+id+"/deliver", httpin.DeliverRequest{Code: wrong})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Equal("OUT_FOR_DELIVERY", suite.order(suite.customer, id).Status)

	rec = suite.call(winner, http.MethodPost, "/api/v1/rider/orders/"+id+"/deliver",
		httpin.DeliverRequest{Code: placed.Order.DeliveryCode})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	delivered := suite.order(suite.customer, id)
	suite.Equal("DELIVERED", delivered.Status)
	suite.NotNil(delivered.Timeline.DeliveredAt)

	rec = suite.call(winner, http.MethodGet, "/api/v1/rider/earnings", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var earnings queries.RiderEarningsView
	suite.decode(rec, &earnings)
	suite.EqualValues(1, earnings.CompletedDeliveries)
	suite.Equal(1, earnings.TotalDeliveries)
	suite.Equal("50.00", earnings.TotalEarnings)
	suite.True(earnings.IsAvailable)

	rec = suite.call(suite.customer, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil)
	suite.Equal(http.StatusConflict, rec.Code, "delivered orders cannot be cancelled")
}

func (suite *LifecycleIntegrationTestSuite) TestCustomerCancelsBeforeAcceptance() {
	id := suite.placeOrder().Order.ID

	rec := suite.call(suite.customer, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil)
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Equal("CANCELLED", suite.order(suite.customer, id).Status)

	rec = suite.call(suite.store, http.MethodPost, "/api/v1/store/orders/"+id+"/accept", nil)
	suite.Equal(http.StatusConflict, rec.Code)
}

func (suite *LifecycleIntegrationTestSuite) TestOtherCustomersCannotSeeTheOrder() {
	id := suite.placeOrder().Order.ID
	stranger := suite.actor(kernel.NewUUID(), kernel.RoleCustomer)

	rec := suite.call(stranger, http.MethodGet, "/api/v1/orders/"+id, nil)
	suite.Equal(http.StatusNotFound, rec.Code)

	rec = suite.call(stranger, http.MethodPost, "/api/v1/orders/"+id+"/cancel", nil)
	suite.Equal(http.StatusConflict, rec.Code)
}

func (suite *LifecycleIntegrationTestSuite) TestPaymentVerification() {
	placed := suite.placeOrder()
	target := "/api/v1/orders/" + placed.Order.ID + "/payment/verify"

	rec := suite.call(suite.customer, http.MethodPost, target, httpin.VerifyPaymentRequest{
		PaymentID: "pay_29QQoUBi66xm2f",
		Signature: payment.Sign("not-the-secret", placed.Payment.Handle, "pay_29QQoUBi66xm2f"),
	})
	suite.Equal(http.StatusUnprocessableEntity, rec.Code)

	rec = suite.call(suite.customer, http.MethodPost, target, httpin.VerifyPaymentRequest{
		PaymentID: "pay_29QQoUBi66xm2f",
		Signature: payment.Sign(paymentSecret, placed.Payment.Handle, "pay_29QQoUBi66xm2f"),
	})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var view httpin.PaymentView
	suite.decode(rec, &view)
	suite.Equal("PAID", view.Status)
	suite.Equal("300.00", view.Amount)
	suite.NotNil(view.PaidAt)
}

func (suite *LifecycleIntegrationTestSuite) TestCommissionChangeAppliesToNewOrdersOnly() {
	before := suite.placeOrder()

	rec := suite.call(suite.admin, http.MethodPut, "/api/v1/admin/commission", map[string]string{"percentage": "12.345"})
	suite.Equal(http.StatusBadRequest, rec.Code, "rates are stored with two decimal places")

	rec = suite.call(suite.admin, http.MethodPut, "/api/v1/admin/commission", map[string]string{"percentage": "20"})
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	after := suite.placeOrder()
	suite.Equal("37.50", suite.order(suite.customer, before.Order.ID).Commission)
	suite.Equal("50.00", after.Order.Commission)

	rec = suite.call(suite.admin, http.MethodGet, "/api/v1/admin/commission/history", nil)
	suite.Require().Equal(http.StatusOK, rec.Code)
	var history []queries.CommissionRateView
	suite.decode(rec, &history)
	suite.Require().NotEmpty(history)
	suite.True(history[0].IsActive)
	suite.Equal("20", history[0].Percentage)
}

func (suite *LifecycleIntegrationTestSuite) TestJobManagerBuilds() {
	manager, err := suite.app.JobManager()

	suite.Require().NoError(err)
	suite.Require().NoError(manager.StartAll())
	manager.StopAll()
}
