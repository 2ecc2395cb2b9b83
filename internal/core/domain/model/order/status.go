package order

import (
	"fmt"

	"deliverydispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order. Transitions only move forward:
//
//	Created ──> Assigned ──> Completed
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Created orders wait for a courier.
	Created

	// Assigned orders have a courier travelling to them.
	Assigned

	// Completed is final.
	Completed
)

func statusNames() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Created:   "Created",
		Assigned:  "Assigned",
		Completed: "Completed",
	}
}

// ParseStatus maps a persisted or transmitted name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not an order status", s))
}

// Validate checks that the status is one of Created, Assigned or Completed.
// It is used for values read from storage.
func (s Status) Validate() error {
	if s != Created && s != Assigned && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not an order status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if name, ok := statusNames()[s]; ok {
		return name
	}
	return "Unknown"
}

// ValidateCanHaveCourier checks that a courier is present exactly when the status
// says one was assigned.
func (s Status) ValidateCanHaveCourier(hasCourier bool) error {
	if hasCourier && s == Created {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s order cannot have a courier", s),
		)
	}

	if !hasCourier && (s == Assigned || s == Completed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s order must have a courier", s),
		)
	}

	return nil
}
