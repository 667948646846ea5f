package queries_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/adapters/out/postgres/commissionrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/postgrestest"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// QueriesIntegrationTestSuite runs every read model against one Postgres.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	pg     *postgrestest.Database
	orders *orderrepo.GormOrderRepository

	customer, otherCustomer, store, rider, admin kernel.Actor
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesIntegrationTestSuite))
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	pg, err := postgrestest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.orders = orderrepo.NewGormOrderRepository(suite.pg.DB)

	suite.customer = suite.actor(kernel.RoleCustomer)
	suite.otherCustomer = suite.actor(kernel.RoleCustomer)
	suite.store = suite.actor(kernel.RoleStore)
	suite.rider = suite.actor(kernel.RoleRider)
	suite.admin = suite.actor(kernel.RoleAdmin)

	suite.Require().NoError(suite.pg.SeedRider(suite.T().Context(), suite.rider.ID(), "Karim"))
}

func (suite *QueriesIntegrationTestSuite) actor(role kernel.Role) kernel.Actor {
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	suite.Require().NoError(err)
	return a
}

func (suite *QueriesIntegrationTestSuite) money(s string) kernel.Money {
	m, err := kernel.MoneyFromString(s)
	suite.Require().NoError(err)
	return m
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// place stores a 250.00 + 50.00 order at 15% and applies the transitions,
// each one minute after the previous.
func (suite *QueriesIntegrationTestSuite) place(customer kernel.Actor, placedAt time.Time, steps ...order.Transition) *order.Order {
	ctx := suite.T().Context()

	first, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Biryani", suite.money("100.00"), 2)
	suite.Require().NoError(err)
	second, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Lassi", suite.money("50.00"), 1)
	suite.Require().NoError(err)
	location, err := kernel.NewLocation(23.81, 90.41)
	suite.Require().NoError(err)
	address, err := order.NewAddress("Road 2, Dhanmondi", location)
	suite.Require().NoError(err)
	rate, err := commission.NewRate(decimal.NewFromInt(15))
	suite.Require().NoError(err)
	code, err := order.DeliveryCodeFromString("482913")
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(placedAt), code, order.Draft{
		CustomerID:  customer.ID(),
		StoreID:     suite.store.ID(),
		Items:       []order.Item{first, second},
		DeliveryFee: suite.money("50.00"),
		Commission:  rate,
		Address:     address,
	}, placedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.orders.Add(ctx, o))

	at := placedAt
	for _, tr := range steps {
		at = at.Add(time.Minute)
		var actor kernel.Actor
		switch tr.Role() {
		case kernel.RoleStore:
			actor = suite.store
		case kernel.RoleCustomer:
			actor = customer
		default:
			actor = suite.rider
		}

		var c order.Change
		if tr == order.RiderDeliver {
			c, err = order.NewDeliveryChange(actor, code, at)
		} else {
			c, err = order.NewChange(tr, actor, at)
		}
		suite.Require().NoError(err)

		expected := o.Precondition()
		suite.Require().NoError(o.Apply(c))
		suite.Require().NoError(suite.orders.Update(ctx, o, expected))
	}
	return o
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_ScopedToParticipants() {
	ctx := suite.T().Context()
	o := suite.place(suite.customer, base, order.StoreAccept, order.RiderClaim)
	handler := queries.NewGetOrderQueryHandler(suite.pg.DB)

	get := func(viewer kernel.Actor) (queries.OrderView, error) {
		q, err := queries.NewGetOrderQuery(viewer, o.ID())
		suite.Require().NoError(err)
		return handler.Handle(ctx, q)
	}

	own, err := get(suite.customer)
	suite.Require().NoError(err)
	suite.Equal("482913", own.DeliveryCode)
	suite.Equal("RIDER_ASSIGNED", own.Status)
	suite.Equal("250.00", own.Subtotal)
	suite.Equal("37.50", own.Commission)
	suite.Equal("300.00", own.Total)
	suite.Equal("15", own.CommissionRate)
	suite.Equal(queries.PayoutView{Store: "212.50", Rider: "50.00", Platform: "37.50"}, own.Payout)
	suite.Require().Len(own.Items, 2)
	suite.Equal("Biryani", own.Items[0].ProductName)
	suite.Equal("200.00", own.Items[0].LineTotal)
	suite.Require().NotNil(own.RiderID)
	suite.Equal(suite.rider.ID().String(), *own.RiderID)
	suite.NotNil(own.Timeline.RiderAssignedAt)

	for _, viewer := range []kernel.Actor{suite.store, suite.rider, suite.admin} {
		v, err := get(viewer)
		suite.Require().NoError(err, viewer.String())
		suite.Empty(v.DeliveryCode, viewer.String())
		suite.Equal(o.ID().String(), v.ID)
	}

	for _, outsider := range []kernel.Actor{suite.otherCustomer, suite.actor(kernel.RoleStore), suite.actor(kernel.RoleRider)} {
		_, err := get(outsider)
		suite.Require().ErrorIs(err, errs.ErrObjectNotFound, outsider.String())
	}
}

func (suite *QueriesIntegrationTestSuite) TestGetOrder_NotFound() {
	q, err := queries.NewGetOrderQuery(suite.admin, kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = queries.NewGetOrderQueryHandler(suite.pg.DB).Handle(suite.T().Context(), q)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestListOrders_ByRoleAndStatus() {
	ctx := suite.T().Context()
	placed := suite.place(suite.customer, base)
	accepted := suite.place(suite.customer, base.Add(time.Hour), order.StoreAccept)
	foreign := suite.place(suite.otherCustomer, base.Add(2*time.Hour), order.StoreAccept)
	handler := queries.NewListOrdersQueryHandler(suite.pg.DB)

	list := func(viewer kernel.Actor, status string) []queries.OrderView {
		q, err := queries.NewListOrdersQuery(viewer, status, 0, 0)
		suite.Require().NoError(err)
		views, err := handler.Handle(ctx, q)
		suite.Require().NoError(err)
		return views
	}

	mine := list(suite.customer, "")
	suite.Require().Len(mine, 2)
	suite.Equal(accepted.ID().String(), mine[0].ID)
	suite.Equal(placed.ID().String(), mine[1].ID)
	suite.Equal("482913", mine[0].DeliveryCode)
	suite.Len(mine[0].Items, 2)

	suite.Len(list(suite.customer, "ACCEPTED"), 1)
	suite.Len(list(suite.store, ""), 3)
	storeAccepted := list(suite.store, "ACCEPTED")
	suite.Len(storeAccepted, 2)
	suite.Empty(storeAccepted[0].DeliveryCode)
	suite.Len(list(suite.admin, "PLACED"), 1)
	suite.Empty(list(suite.rider, ""))
	suite.Equal(foreign.ID().String(), list(suite.otherCustomer, "")[0].ID)

	_, err := queries.NewListOrdersQuery(suite.admin, "SHIPPED", 0, 0)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *QueriesIntegrationTestSuite) TestListClaimableOrders() {
	ctx := suite.T().Context()
	later := suite.place(suite.customer, base.Add(time.Hour), order.StoreAccept)
	earlier := suite.place(suite.customer, base, order.StoreAccept)
	suite.place(suite.customer, base)
	suite.place(suite.customer, base, order.StoreAccept, order.RiderClaim)
	handler := queries.NewListClaimableOrdersQueryHandler(suite.pg.DB)

	q, err := queries.NewListClaimableOrdersQuery(suite.rider)
	suite.Require().NoError(err)
	views, err := handler.Handle(ctx, q)

	suite.Require().NoError(err)
	suite.Require().Len(views, 2)
	suite.Equal(earlier.ID().String(), views[0].ID)
	suite.Equal(later.ID().String(), views[1].ID)
	suite.Empty(views[0].DeliveryCode)

	stale, err := queries.NewStaleClaimableOrdersQuery(base.Add(30 * time.Minute))
	suite.Require().NoError(err)
	views, err = handler.Handle(ctx, stale)
	suite.Require().NoError(err)
	suite.Require().Len(views, 1)
	suite.Equal(earlier.ID().String(), views[0].ID)
}

func (suite *QueriesIntegrationTestSuite) TestListClaimableOrders_RequiresApprovedRider() {
	ctx := suite.T().Context()
	handler := queries.NewListClaimableOrdersQueryHandler(suite.pg.DB)

	unregistered := suite.actor(kernel.RoleRider)
	q, err := queries.NewListClaimableOrdersQuery(unregistered)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrNotPermitted)

	suite.Require().NoError(suite.pg.DB.Exec("UPDATE riders SET is_approved = false").Error)
	q, err = queries.NewListClaimableOrdersQuery(suite.rider)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrNotPermitted)
}

func (suite *QueriesIntegrationTestSuite) TestGetRiderActiveOrder() {
	ctx := suite.T().Context()
	handler := queries.NewGetRiderActiveOrderQueryHandler(suite.pg.DB)
	q, err := queries.NewGetRiderActiveOrderQuery(suite.rider)
	suite.Require().NoError(err)

	_, err = handler.Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	suite.place(suite.customer, base, order.StoreAccept, order.RiderClaim, order.RiderPickUp, order.RiderDeliver)
	active := suite.place(suite.customer, base.Add(time.Hour), order.StoreAccept, order.RiderClaim, order.RiderPickUp)

	v, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(active.ID().String(), v.ID)
	suite.Equal("OUT_FOR_DELIVERY", v.Status)
	suite.Empty(v.DeliveryCode)
}

func (suite *QueriesIntegrationTestSuite) TestEarnings() {
	ctx := suite.T().Context()
	suite.place(suite.customer, base)
	suite.place(suite.customer, base, order.StoreAccept)
	suite.place(suite.customer, base, order.StoreReject)
	suite.place(suite.customer, base, order.StoreAccept, order.RiderClaim, order.RiderPickUp, order.RiderDeliver)
	suite.place(suite.otherCustomer, base, order.StoreAccept, order.RiderClaim, order.RiderPickUp, order.RiderDeliver)
	handler := queries.NewGetEarningsQueryHandler(suite.pg.DB)

	q, err := queries.NewGetEarningsQuery(suite.store)
	suite.Require().NoError(err)
	storeView, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Require().NotNil(storeView.Store)
	suite.Nil(storeView.Rider)
	suite.Equal(queries.StoreEarningsView{
		PendingOrders:   1,
		ActiveOrders:    1,
		CompletedOrders: 2,
		TotalSales:      "600.00",
		TotalCommission: "75.00",
		NetPayout:       "425.00",
	}, *storeView.Store)

	q, err = queries.NewGetEarningsQuery(suite.rider)
	suite.Require().NoError(err)
	riderView, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Require().NotNil(riderView.Rider)
	suite.Equal(int64(2), riderView.Rider.CompletedDeliveries)
	suite.Equal("100.00", riderView.Rider.TotalEarnings)
	suite.True(riderView.Rider.IsApproved)

	q, err = queries.NewGetEarningsQuery(suite.actor(kernel.RoleRider))
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	_, err = queries.NewGetEarningsQuery(suite.customer)
	suite.Require().ErrorIs(err, errs.ErrNotPermitted)
}

func (suite *QueriesIntegrationTestSuite) TestAdminDashboard() {
	ctx := suite.T().Context()
	suite.place(suite.customer, base)
	suite.place(suite.customer, base, order.CustomerCancel)
	suite.place(suite.customer, base, order.StoreAccept, order.RiderClaim, order.RiderPickUp, order.RiderDeliver)

	q, err := queries.NewGetAdminDashboardQuery(suite.admin)
	suite.Require().NoError(err)
	v, err := queries.NewGetAdminDashboardQueryHandler(suite.pg.DB).Handle(ctx, q)

	suite.Require().NoError(err)
	suite.Equal(int64(3), v.TotalOrders)
	suite.Equal(int64(1), v.OrdersByStatus["PLACED"])
	suite.Equal(int64(1), v.OrdersByStatus["CANCELLED"])
	suite.Equal(int64(1), v.OrdersByStatus["DELIVERED"])
	suite.Equal(int64(0), v.OrdersByStatus["ACCEPTED"])
	suite.Equal("37.50", v.TotalCommission)
	suite.Equal(int64(1), v.AvailableRiders)

	_, err = queries.NewGetAdminDashboardQuery(suite.store)
	suite.Require().ErrorIs(err, errs.ErrNotPermitted)
}

func (suite *QueriesIntegrationTestSuite) TestCommissionRate_DefaultThenHistory() {
	ctx := suite.T().Context()
	fallback, err := commission.NewRate(decimal.NewFromInt(15))
	suite.Require().NoError(err)
	current := queries.NewGetCommissionRateQueryHandler(suite.pg.DB, fallback)
	history := queries.NewListCommissionHistoryQueryHandler(suite.pg.DB)

	getQuery, err := queries.NewGetCommissionRateQuery(suite.admin)
	suite.Require().NoError(err)
	historyQuery, err := queries.NewListCommissionHistoryQuery(suite.admin)
	suite.Require().NoError(err)

	v, err := current.Handle(ctx, getQuery)
	suite.Require().NoError(err)
	suite.True(v.IsDefault)
	suite.Equal("15", v.Percentage)

	for _, p := range []int64{18, 20} {
		rate, err := commission.NewRate(decimal.NewFromInt(p))
		suite.Require().NoError(err)
		entry, err := commission.NewEntry(rate, base)
		suite.Require().NoError(err)
		suite.Require().NoError(suite.pg.DB.Transaction(func(tx *gorm.DB) error {
			_, err := commissionrepo.NewGormCommissionRepository(tx).Replace(ctx, entry)
			return err
		}))
	}

	v, err = current.Handle(ctx, getQuery)
	suite.Require().NoError(err)
	suite.False(v.IsDefault)
	suite.Equal("20", v.Percentage)
	suite.Equal(int64(2), v.Version)

	rows, err := history.Handle(ctx, historyQuery)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal(int64(2), rows[0].Version)
	suite.True(rows[0].IsActive)
	suite.Equal("18", rows[1].Percentage)
	suite.False(rows[1].IsActive)
}
