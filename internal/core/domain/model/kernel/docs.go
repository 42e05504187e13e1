// Package kernel holds the value objects shared by every aggregate of the
// dispatch domain: identifiers, coordinates and addresses, plus the pure
// geo math (haversine distance and ETA heuristics) used to rank couriers.
//
// Nothing in this package performs I/O; all functions are deterministic.
package kernel
