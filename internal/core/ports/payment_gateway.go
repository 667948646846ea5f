package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	// CreatePayment opens a payment for the order total and returns the
	// gateway's handle. Failures are errs.UpstreamError.
	CreatePayment(ctx context.Context, orderID kernel.UUID, amount kernel.Money) (string, error)

	// VerifySignature checks the signature the gateway returned to the
	// customer for (handle, paymentID). A mismatch is errs.InvalidCredentialError.
	VerifySignature(handle, paymentID, signature string) error
}
