// Package order implements the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: aggregate root holding participants, priced items, the monetary
//     snapshot, the delivery code and one timestamp per transition
//   - Status and Transition: the allowed edges between statuses and the role
//     that may take each of them
//   - Change and Precondition: a requested transition and the prior state a
//     conditional update must still find in storage
//   - Item, Address, DeliveryCode, Number: value objects captured at placement
//
// Key business rules:
//   - PLACED -> ACCEPTED | CANCELLED, ACCEPTED -> RIDER_ASSIGNED,
//     RIDER_ASSIGNED -> OUT_FOR_DELIVERY, OUT_FOR_DELIVERY -> DELIVERED
//   - a customer may cancel only while the order is PLACED
//   - a rider is bound once and never unbound
//   - subtotal, delivery fee, commission and total are fixed at placement
//   - delivering requires the exact 6-digit code stored on the order
package order
