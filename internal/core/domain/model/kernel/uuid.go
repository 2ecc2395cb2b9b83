package kernel

import (
	"fmt"

	"deliverydispatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned for the nil UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError(
	"UUID must be created via NewUUID, UUIDFromString or UUIDFromValue")

// UUID identifies aggregates and domain events. It wraps github.com/google/uuid so the
// domain never passes the nil UUID around by accident: the zero value fails Validate.
type UUID struct {
	id uuid.UUID
}

// NewUUID returns a random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical, braced and urn forms accepted by uuid.Parse.
// Basket ids arriving from upstream services enter the domain through here.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("parse %q: %w", s, err))
	}

	return UUIDFromValue(id)
}

// UUIDFromValue wraps an identifier loaded from storage. The nil UUID is rejected.
func UUIDFromValue(id uuid.UUID) (UUID, error) {
	u := UUID{id: id}
	if err := u.Validate(); err != nil {
		return UUID{}, err
	}
	return u, nil
}

func (u UUID) String() string {
	return u.id.String()
}

// Value exposes the wrapped identifier for persistence and serialization.
func (u UUID) Value() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
