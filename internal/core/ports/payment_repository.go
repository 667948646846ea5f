package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/payment"
)

// PaymentRepository stores one payment per order.
type PaymentRepository interface {
	Add(ctx context.Context, aggregate *payment.Payment) error

	// GetByOrder returns errs.ObjectNotFoundError when the order has no payment.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error)

	// MarkPaid writes PENDING -> PAID conditionally; errs.ConflictError when the
	// row is no longer PENDING.
	MarkPaid(ctx context.Context, aggregate *payment.Payment) error
}
