package courier

import (
	"fmt"

	"deliverydispatch/internal/pkg/errs"
)

// Status is the availability of a courier:
//
//	Free ──SetBusy──> Busy ──SetFree──> Free
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Free
	Busy
)

func statusNames() map[Status]string {
	return map[Status]string{
		Unknown: "Unknown",
		Free:    "Free",
		Busy:    "Busy",
	}
}

// ParseStatus maps a persisted or transmitted name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a courier status", s))
}

func (s Status) Validate() error {
	if s != Free && s != Busy {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a courier status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames()[s]; ok {
		return name
	}
	return "Unknown"
}
