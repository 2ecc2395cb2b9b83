package courier

import (
	"fmt"
	"strings"

	"deliverydispatch/internal/pkg/errs"
)

// ErrTransportIsNotConstructed is returned for a zero-value Transport.
var ErrTransportIsNotConstructed = errs.NewValueIsRequiredError("transport")

// Transport is the courier's means of travel. Its speed is the maximum number of
// grid steps a courier makes per movement tick.
//
// Transports form a closed table fixed at package init; the only way to obtain one
// is by lookup, and values are returned by copy.
type Transport struct {
	id    int
	name  string
	speed int
}

var transports = [...]Transport{
	{id: 1, name: "pedestrian", speed: 1},
	{id: 2, name: "bicycle", speed: 2},
	{id: 3, name: "car", speed: 3},
}

func Pedestrian() Transport { return transports[0] }
func Bicycle() Transport    { return transports[1] }
func Car() Transport        { return transports[2] }

// Transports lists the whole table ordered by id.
func Transports() []Transport {
	out := make([]Transport, len(transports))
	copy(out, transports[:])
	return out
}

func TransportByID(id int) (Transport, error) {
	for _, t := range transports {
		if t.id == id {
			return t, nil
		}
	}
	return Transport{}, errs.NewValueIsInvalidErrorWithCause("transport", fmt.Errorf("unknown transport id %d", id))
}

// TransportByName matches case-insensitively.
func TransportByName(name string) (Transport, error) {
	for _, t := range transports {
		if strings.EqualFold(t.name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Transport{}, errs.NewValueIsInvalidErrorWithCause("transport", fmt.Errorf("unknown transport %q", name))
}

func (t Transport) ID() int {
	return t.id
}

func (t Transport) Name() string {
	return t.name
}

func (t Transport) Speed() int {
	return t.speed
}

func (t Transport) IsEqual(other Transport) bool {
	return t.id == other.id
}

func (t Transport) Validate() error {
	if t.id == 0 {
		return ErrTransportIsNotConstructed
	}
	return nil
}

func (t Transport) String() string {
	return t.name
}
