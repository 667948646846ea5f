package payment_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPayment(t *testing.T) *payment.Payment {
	t.Helper()
	amount, err := kernel.MoneyFromString("300.00")
	require.NoError(t, err)
	p, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), "pay_handle_1", amount, now)
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	p := newPayment(t)

	require.NoError(t, p.Validate())
	assert.Equal(t, payment.StatusPending, p.Status())
	assert.Equal(t, "300.00", p.Amount().String())
	assert.Equal(t, "pay_handle_1", p.Handle())
	assert.Nil(t, p.PaidAt())

	_, err := payment.NewPayment(kernel.NewUUID(), kernel.NewUUID(), " ", p.Amount(), now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPayment_MarkPaid(t *testing.T) {
	p := newPayment(t)

	require.NoError(t, p.MarkPaid("gw_42", now.Add(time.Minute)))
	assert.Equal(t, payment.StatusPaid, p.Status())
	assert.Equal(t, "gw_42", p.GatewayPaymentID())
	require.NotNil(t, p.PaidAt())

	err := p.MarkPaid("gw_43", now.Add(2*time.Minute))
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, "gw_42", p.GatewayPaymentID())
}

func TestRestorePayment(t *testing.T) {
	p := newPayment(t)
	s := payment.State{
		ID:        p.ID(),
		OrderID:   p.OrderID(),
		Handle:    p.Handle(),
		Amount:    p.Amount(),
		Status:    payment.StatusPaid,
		CreatedAt: now,
	}

	_, err := payment.RestorePayment(s)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	paidAt := now.Add(time.Hour)
	s.PaidAt = &paidAt
	restored, err := payment.RestorePayment(s)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPaid, restored.Status())

	s.Status = "REFUNDED"
	_, err = payment.RestorePayment(s)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
