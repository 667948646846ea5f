// Package kernel holds the value objects shared by every aggregate of the
// dispatch domain.
//
//   - UUID: identifier of orders, items, riders, stores, customers and payments
//   - Money: non-negative decimal amount with two fractional digits
//   - Location: WGS84 drop-off coordinates
//   - Role and Actor: the authenticated principal performing an operation
//
// All of them are immutable and built through constructors that validate
// their input; zero values fail Validate.
package kernel
