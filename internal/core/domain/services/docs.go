// Package services provides domain services that span the order and courier
// aggregates.
//
// The package includes:
//   - CourierRanker: orders assignment candidates by distance to the vendor
//   - OrderLifecycle: applies order transitions and courier status rules with one clock
package services
