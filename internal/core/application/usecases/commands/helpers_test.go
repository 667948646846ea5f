package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func money(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.MoneyFromString(s)
	require.NoError(t, err)
	return m
}

func rate(t *testing.T, percentage int64) commission.Rate {
	t.Helper()
	r, err := commission.NewRate(decimal.NewFromInt(percentage))
	require.NoError(t, err)
	return r
}

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func address(t *testing.T) order.Address {
	t.Helper()
	location, err := kernel.NewLocation(23.8103, 90.4125)
	require.NoError(t, err)
	a, err := order.NewAddress("House 7, Road 2, Dhanmondi", location)
	require.NoError(t, err)
	return a
}

// orderFor places an order for customer with store and walks it through the
// given transitions.
func orderFor(t *testing.T, customer, store kernel.Actor, steps ...func(o *order.Order)) *order.Order {
	t.Helper()

	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Biryani", money(t, "100.00"), 2)
	require.NoError(t, err)
	code, err := order.DeliveryCodeFromString("123456")
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), order.NewNumber(placedAt), code, order.Draft{
		CustomerID:  customer.ID(),
		StoreID:     store.ID(),
		Items:       []order.Item{item},
		DeliveryFee: money(t, "50.00"),
		Commission:  rate(t, 15),
		Address:     address(t),
	}, placedAt)
	require.NoError(t, err)

	for _, step := range steps {
		step(o)
	}
	return o
}

func apply(t *testing.T, tr order.Transition, a kernel.Actor) func(o *order.Order) {
	return func(o *order.Order) {
		c, err := order.NewChange(tr, a, placedAt.Add(time.Minute))
		require.NoError(t, err)
		require.NoError(t, o.Apply(c))
	}
}

func approvedRider(t *testing.T, a kernel.Actor) *rider.Rider {
	t.Helper()
	r, err := rider.RestoreRider(a.ID(), "Karim", true, true, 4)
	require.NoError(t, err)
	return r
}
