// Package services provides domain services that work across several
// aggregates of the dispatch system.
//
// The package includes:
//   - OrderPricer: prices a customer's requested lines against the store's catalog
//   - PayoutSplitter: splits an order's money between store, rider and platform
package services
