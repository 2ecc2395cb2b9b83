// Package order implements the Order aggregate root and its lifecycle.
//
// The package includes:
//   - Order: identity, delivery location, assigned courier and status
//   - Status: the forward-only Created -> Assigned -> Completed state machine
//   - CompletedDomainEvent: raised on delivery and relayed through the outbox
//
// Assigning an order checks the courier's availability but never changes the
// courier; the application workflow updates both aggregates in one unit of work.
package order
