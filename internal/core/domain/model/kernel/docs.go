// Package kernel holds the value objects shared by every aggregate of the dispatch
// domain:
//   - UUID: a validated identifier for couriers, orders and domain events
//   - Location: a point on the 10x10 delivery grid with Manhattan distance and
//     single-step movement toward a target
//
// Both are immutable and safe to copy between goroutines. Their zero values are
// invalid and every operation on them reports that instead of computing with
// garbage coordinates.
package kernel
