// Package courier provides the Courier aggregate, its availability status and
// position fixes.
//
// The package includes:
//   - Courier: aggregate root with identity, status, last location and current order
//   - Status: Offline, Available, Busy, OnBreak
//   - Location: a validated position fix with timestamp, accuracy and optional speed
//
// Key business rules:
//   - A courier holds at most one order, and holds one exactly when Busy
//   - Only active, Available couriers can be reserved
//   - Availability changes driven by the courier app never enter or leave Busy
package courier
