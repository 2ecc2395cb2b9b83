// Package courier implements the Courier aggregate root of the dispatch domain.
//
// The package includes:
//   - Courier: identity, transport, current location and Free/Busy availability
//   - Transport: the closed table of travel modes (pedestrian, bicycle, car) with
//     their speeds in grid steps per movement tick
//   - Status: the Free/Busy state machine
//
// Couriers do not reference orders. Pairing a courier with an order and keeping the
// two aggregates consistent is the job of the application workflows.
package courier
