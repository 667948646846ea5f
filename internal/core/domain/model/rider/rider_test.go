package rider_test

import (
	"strings"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions.
func createApprovedRider(t *testing.T) *rider.Rider {
	t.Helper()
	r, err := rider.NewRider(kernel.NewUUID(), "Test Rider")
	require.NoError(t, err)
	r.Approve()
	return r
}

func TestNewRider(t *testing.T) {
	validID := kernel.NewUUID()

	t.Run("should create unapproved unavailable rider", func(t *testing.T) {
		r, err := rider.NewRider(validID, "  Karim  ")

		require.NoError(t, err)
		require.NoError(t, r.Validate())
		assert.True(t, r.ID().IsEqual(validID))
		assert.Equal(t, "Karim", r.Name())
		assert.False(t, r.IsApproved())
		assert.False(t, r.IsAvailable())
		assert.Zero(t, r.TotalDeliveries())
	})

	t.Run("should return error for invalid UUID", func(t *testing.T) {
		r, err := rider.NewRider(kernel.UUID{}, "Karim")

		require.Error(t, err)
		assert.Nil(t, r)
		assert.Contains(t, err.Error(), kernel.ErrUUIDIsNotConstructed.Error())
	})

	t.Run("should return error for empty name", func(t *testing.T) {
		r, err := rider.NewRider(validID, "   ")

		require.ErrorIs(t, err, rider.ErrNameIsRequired)
		assert.Nil(t, r)
	})

	t.Run("should return error for long name", func(t *testing.T) {
		_, err := rider.NewRider(validID, strings.Repeat("k", rider.MaxNameLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should aggregate errors", func(t *testing.T) {
		_, err := rider.NewRider(kernel.UUID{}, "")

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, rider.ErrNameIsRequired)
	})
}

func TestRestoreRider(t *testing.T) {
	t.Run("should restore persisted state", func(t *testing.T) {
		id := kernel.NewUUID()

		r, err := rider.RestoreRider(id, "Karim", true, true, 42)

		require.NoError(t, err)
		assert.True(t, r.IsApproved())
		assert.True(t, r.IsAvailable())
		assert.Equal(t, 42, r.TotalDeliveries())
	})

	t.Run("should reject a negative counter", func(t *testing.T) {
		_, err := rider.RestoreRider(kernel.NewUUID(), "Karim", true, true, -1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRider_CanDispatch(t *testing.T) {
	r, err := rider.NewRider(kernel.NewUUID(), "Karim")
	require.NoError(t, err)

	require.ErrorIs(t, r.CanDispatch(), errs.ErrNotPermitted)

	r.Approve()
	r.Approve()

	require.NoError(t, r.CanDispatch())
}

func TestRider_SetAvailability(t *testing.T) {
	t.Run("should turn on without an active delivery", func(t *testing.T) {
		r := createApprovedRider(t)

		require.NoError(t, r.SetAvailability(true, false))
		assert.True(t, r.IsAvailable())
	})

	t.Run("should refuse to turn on with an active delivery", func(t *testing.T) {
		r := createApprovedRider(t)

		err := r.SetAvailability(true, true)

		require.ErrorIs(t, err, errs.ErrConflict)
		assert.False(t, r.IsAvailable())
	})

	t.Run("should always turn off", func(t *testing.T) {
		r := createApprovedRider(t)
		require.NoError(t, r.SetAvailability(true, false))

		require.NoError(t, r.SetAvailability(false, true))
		assert.False(t, r.IsAvailable())
	})
}

func TestRider_DeliveryCycle(t *testing.T) {
	r := createApprovedRider(t)
	require.NoError(t, r.SetAvailability(true, false))

	r.MarkUnavailable()
	assert.False(t, r.IsAvailable())

	r.RecordDelivery()
	assert.True(t, r.IsAvailable())
	assert.Equal(t, 1, r.TotalDeliveries())
}

func TestRider_IsEqual(t *testing.T) {
	id := kernel.NewUUID()
	a, err := rider.NewRider(id, "A")
	require.NoError(t, err)
	b, err := rider.RestoreRider(id, "B", true, false, 3)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b))
	assert.False(t, a.IsEqual(nil))
	assert.False(t, a.IsEqual(createApprovedRider(t)))
}

func TestRider_Validate_Zero(t *testing.T) {
	var r *rider.Rider

	require.ErrorIs(t, r.Validate(), rider.ErrRiderIsNotConstructed)
	require.ErrorIs(t, (&rider.Rider{}).Validate(), rider.ErrRiderIsNotConstructed)
}
