package order_test

import (
	"strings"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryCode(t *testing.T) {
	t.Run("generated codes are six digits", func(t *testing.T) {
		for range 200 {
			c, err := order.NewDeliveryCode()

			require.NoError(t, err)
			assert.Len(t, c.String(), order.DeliveryCodeLength)
			_, err = order.DeliveryCodeFromString(c.String())
			require.NoError(t, err)
		}
	})

	t.Run("leading zeros are kept", func(t *testing.T) {
		c, err := order.DeliveryCodeFromString("000042")

		require.NoError(t, err)
		assert.Equal(t, "000042", c.String())
	})

	t.Run("should reject malformed codes", func(t *testing.T) {
		for _, s := range []string{"", "12345", "1234567", "12a456", " 123456", "١٢٣٤٥٦"} {
			_, err := order.DeliveryCodeFromString(s)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, s)
		}
	})

	t.Run("matches only the same digits", func(t *testing.T) {
		assert.True(t, code(t, "123456").Matches(code(t, "123456")))
		assert.False(t, code(t, "123456").Matches(code(t, "123457")))
		assert.False(t, code(t, "123456").Matches(order.DeliveryCode{}))
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		require.ErrorIs(t, order.DeliveryCode{}.Validate(), order.ErrDeliveryCodeIsNotConstructed)
	})
}

func TestNumber(t *testing.T) {
	n := order.NewNumber(placedAt)

	require.NoError(t, n.Validate())
	assert.True(t, strings.HasPrefix(n.String(), "ORD1772366400000"))
	assert.Len(t, n.String(), len("ORD")+13+3)

	_, err := order.NumberFromString("ORD12")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	parsed, err := order.NumberFromString(n.String())
	require.NoError(t, err)
	assert.Equal(t, n, parsed)
}

func TestNewItem(t *testing.T) {
	t.Run("should compute the line total", func(t *testing.T) {
		item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Naan", money(t, "12.50"), 3)

		require.NoError(t, err)
		assert.Equal(t, "37.50", item.LineTotal().String())
		assert.Equal(t, 3, item.Quantity())
	})

	t.Run("should bound the quantity", func(t *testing.T) {
		for _, qty := range []int{0, -1, order.MaxItemQuantity + 1} {
			_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "Naan", money(t, "12.50"), qty)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should require a product name", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), "  ", money(t, "12.50"), 1)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("restore keeps the stored line total", func(t *testing.T) {
		item, err := order.RestoreItem(kernel.NewUUID(), kernel.NewUUID(), "Naan", money(t, "12.50"), 2, money(t, "24.00"))

		require.NoError(t, err)
		assert.Equal(t, "24.00", item.LineTotal().String())
	})
}

func TestNewAddress(t *testing.T) {
	location, err := kernel.NewLocation(23.78, 90.41)
	require.NoError(t, err)

	t.Run("should trim the text", func(t *testing.T) {
		a, err := order.NewAddress("  Gulshan 1  ", location)

		require.NoError(t, err)
		assert.Equal(t, "Gulshan 1", a.Text())
		assert.Equal(t, location, a.Location())
	})

	t.Run("should require text", func(t *testing.T) {
		_, err := order.NewAddress(" ", location)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should bound the length", func(t *testing.T) {
		_, err := order.NewAddress(strings.Repeat("a", order.MaxAddressLength+1), location)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should require a constructed location", func(t *testing.T) {
		_, err := order.NewAddress("Gulshan 1", kernel.Location{})

		require.Error(t, err)
	})
}
