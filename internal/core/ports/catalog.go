package ports

import (
	"context"

	"dispatch/internal/core/domain/model/catalog"
	"dispatch/internal/core/domain/model/kernel"
)

// Catalog reads stores and products owned by the catalog service.
type Catalog interface {
	// GetStore returns errs.ObjectNotFoundError for an unknown store.
	GetStore(ctx context.Context, id kernel.UUID) (catalog.Store, error)

	// GetProducts returns the products among ids that exist; unknown ids are
	// simply absent from the map.
	GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Product, error)
}
