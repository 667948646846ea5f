package commands_test

import (
	"strings"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPlaceOrderCommand(t *testing.T) {
	customer := newActor(t, kernel.RoleCustomer)
	naan := kernel.NewUUID()
	curry := kernel.NewUUID()

	t.Run("should keep lines and dedupe product ids", func(t *testing.T) {
		lines := []services.Line{{ProductID: naan, Quantity: 2}, {ProductID: curry, Quantity: 1}, {ProductID: naan, Quantity: 1}}

		cmd, err := commands.NewPlaceOrderCommand(customer, kernel.NewUUID(), lines, address(t), "  gate code 44 ")

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, lines, cmd.Lines())
		assert.Equal(t, []kernel.UUID{naan, curry}, cmd.ProductIDs())
		assert.Equal(t, "gate code 44", cmd.Notes())

		lines[0].Quantity = 99
		assert.Equal(t, 2, cmd.Lines()[0].Quantity)
	})

	t.Run("should require a customer", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(newActor(t, kernel.RoleStore), kernel.NewUUID(),
			[]services.Line{{ProductID: naan, Quantity: 1}}, address(t), "")

		require.ErrorIs(t, err, errs.ErrNotPermitted)
	})

	t.Run("should require lines", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(customer, kernel.NewUUID(), nil, address(t), "")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should bound quantities", func(t *testing.T) {
		for _, qty := range []int{0, order.MaxItemQuantity + 1} {
			_, err := commands.NewPlaceOrderCommand(customer, kernel.NewUUID(),
				[]services.Line{{ProductID: naan, Quantity: qty}}, address(t), "")
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should aggregate every problem", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand(customer, kernel.UUID{}, nil, order.Address{},
			strings.Repeat("x", order.MaxNotesLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, order.ErrAddressIsNotConstructed)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		cmd := commands.PlaceOrderCommand{}
		require.ErrorIs(t, cmd.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
	})
}
