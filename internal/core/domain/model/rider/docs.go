// Package rider provides the Rider aggregate: the delivery person who claims
// accepted orders and carries them to the customer.
//
// The package includes:
//   - Rider: identity, approval, availability and the lifetime delivery counter
//
// Key business rules:
//   - only approved riders may list or claim orders
//   - a rider holds at most one active delivery (RIDER_ASSIGNED or OUT_FOR_DELIVERY)
//   - a rider becomes unavailable after a claim and available again once the
//     order is delivered
//   - a rider may not declare itself available while holding an active delivery
package rider
