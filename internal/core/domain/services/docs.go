// Package services provides domain services that make decisions spanning more than
// one aggregate of the dispatch domain.
//
// The package includes:
//   - CourierScoringService: selects the closest Free courier for an order
package services
