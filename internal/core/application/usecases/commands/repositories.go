// Package commands contains the operations that change order, rider,
// commission and payment state. Every handler follows the same sequence:
// validate the command, open a unit of work, apply the domain change, write it
// conditionally, commit, then notify.
package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// RiderRepoFactory provides access to rider repository within a transaction.
	RiderRepoFactory interface {
		RiderRepository() ports.RiderRepository
	}

	// CommissionRepoFactory provides access to the commission history within a transaction.
	CommissionRepoFactory interface {
		CommissionRepository() ports.CommissionRepository
	}

	// PaymentRepoFactory provides access to payments within a transaction.
	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	// CatalogFactory provides catalog reads within a transaction.
	CatalogFactory interface {
		Catalog() ports.Catalog
	}

	// OrderUoW manages transactions for transitions that touch only the order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// RiderUoW manages transactions for rider-only operations.
	RiderUoW interface {
		TxManager
		RiderRepoFactory
	}

	// RiderUoWFactory creates new rider unit of work instances.
	RiderUoWFactory interface {
		Create() RiderUoW
	}

	// DispatchUoW spans an order and its rider: claim and deliver.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   riderRepo := uow.RiderRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		RiderRepoFactory
	}

	// DispatchUoWFactory creates new dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// PlacementUoW covers everything order placement reads and writes.
	PlacementUoW interface {
		TxManager
		OrderRepoFactory
		CommissionRepoFactory
		PaymentRepoFactory
		CatalogFactory
	}

	// PlacementUoWFactory creates new placement unit of work instances.
	PlacementUoWFactory interface {
		Create() PlacementUoW
	}

	// CommissionUoW manages transactions over the commission history.
	CommissionUoW interface {
		TxManager
		CommissionRepoFactory
	}

	// CommissionUoWFactory creates new commission unit of work instances.
	CommissionUoWFactory interface {
		Create() CommissionUoW
	}

	// PaymentUoW reads the order and writes its payment.
	PaymentUoW interface {
		TxManager
		OrderRepoFactory
		PaymentRepoFactory
	}

	// PaymentUoWFactory creates new payment unit of work instances.
	PaymentUoWFactory interface {
		Create() PaymentUoW
	}
)

// Notifier fans committed changes out to subscribers. It is called after
// commit and never reports failure to the caller.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *order.Order)
	OrderChanged(ctx context.Context, o *order.Order, transition order.Transition)
}
