package ports

import (
	"context"

	"dispatch/internal/core/domain/model/commission"
)

// CommissionRepository stores the append-only history of commission rates.
type CommissionRepository interface {
	// Active returns the single active entry, or nil when the history is empty.
	Active(ctx context.Context) (*commission.Entry, error)

	// Replace deactivates every entry and appends entry as the new active one
	// with version max+1. Must run inside a transaction. A concurrent replace
	// that would leave two active rows surfaces as errs.ConflictError.
	Replace(ctx context.Context, entry *commission.Entry) (*commission.Entry, error)
}
