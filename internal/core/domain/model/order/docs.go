// Package order provides the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: aggregate root holding items, delivery address, courier assignment and history
//   - Status: lifecycle states with an explicit transition table
//   - Item: an order line priced with github.com/shopspring/decimal
//   - HistoryEntry: one append-only record of a status change
//
// Key business rules:
//   - New orders start Pending with one history entry
//   - Status moves forward one step at a time: Pending -> Confirmed -> Preparing ->
//     ReadyForPickup -> PickedUp -> InTransit -> Delivered
//   - Any non-terminal order can be Cancelled; Delivered and Cancelled are terminal
//   - A courier is attached exactly when the order becomes Confirmed
//   - Re-applying the current status is a no-op that records nothing
package order
