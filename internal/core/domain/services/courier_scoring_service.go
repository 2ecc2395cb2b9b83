package services

import (
	"errors"
	"math"

	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/order"
)

var (
	// ErrOrderIsRequired is returned when scoring is asked for a nil order.
	ErrOrderIsRequired = errors.New("order is required")
	// ErrAtLeastOneCourierIsRequired is returned for a nil or empty candidate list.
	ErrAtLeastOneCourierIsRequired = errors.New("at least one courier is required")
	// ErrNoCourierFound is returned when none of the candidates is Free.
	ErrNoCourierFound = errors.New("no free courier found")
)

// CourierScoringService picks the courier that should take an order.
//
// Business rules:
//   - Only Free couriers are candidates
//   - The courier with the smallest Manhattan distance to the order location wins
//   - On equal distance the courier listed first wins, so callers control
//     tie-breaking through the order of the candidate list
//
// The service only selects. It changes neither the order nor the courier.
//
// Example usage:
//
//	scoring := services.NewCourierScoringService()
//	best, err := scoring.FindClosestAvailableCourier(o, couriers)
//	if errors.Is(err, services.ErrNoCourierFound) {
//	    // leave the order for the next run
//	}
type CourierScoringService struct{}

// NewCourierScoringService creates a new CourierScoringService instance.
func NewCourierScoringService() CourierScoringService {
	return CourierScoringService{}
}

// FindClosestAvailableCourier returns the closest Free courier for o.
//
// Parameters:
//   - o: the order to score candidates against
//   - couriers: candidates in tie-breaking order
//
// Returns:
//   - *courier.Courier: the winning candidate
//   - error: ErrOrderIsRequired, ErrAtLeastOneCourierIsRequired, ErrNoCourierFound,
//     or a validation error for an unconstructed order or courier
func (s CourierScoringService) FindClosestAvailableCourier(
	o *order.Order,
	couriers []*courier.Courier,
) (*courier.Courier, error) {
	if o == nil {
		return nil, ErrOrderIsRequired
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if len(couriers) == 0 {
		return nil, ErrAtLeastOneCourierIsRequired
	}

	var (
		best         *courier.Courier
		bestDistance = math.MaxInt
	)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, err
		}

		if !c.IsFree() {
			continue
		}

		distance, err := c.Location().DistanceTo(o.Location())
		if err != nil {
			return nil, err
		}

		if distance < bestDistance {
			bestDistance = distance
			best = c
		}
	}

	if best == nil {
		return nil, ErrNoCourierFound
	}

	return best, nil
}
