package kernel

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"deliverydispatch/internal/pkg/errs"
	"deliverydispatch/internal/pkg/guard"
)

// Coordinate is a single axis value on the delivery grid.
type Coordinate int8

const (
	LocationMinX Coordinate = 1
	LocationMinY Coordinate = 1
	LocationMaxX Coordinate = 10
	LocationMaxY Coordinate = 10
)

// ErrLocationIsNotConstructed is returned when a zero-value Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or NewRandomLocation constructors")

// Location is an immutable point on the delivery grid. Both coordinates always lie in
// [LocationMin..LocationMax]; the zero value is invalid and every operation on it
// returns ErrLocationIsNotConstructed.
//
// Example:
//
//	loc, err := kernel.NewLocation(5, 7)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(loc) // Location(5,7)
type Location struct { //nolint:recvcheck //private setters validate during construction
	x     Coordinate
	y     Coordinate
	guard guard.ConstructorGuard
}

// NewLocation validates both coordinates and returns the joined range errors when
// either of them falls outside the grid.
func NewLocation(x Coordinate, y Coordinate) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setX(x), loc.setY(y)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// NewRandomLocation returns a location drawn uniformly from the grid. Newly hired
// couriers start at such a location.
func NewRandomLocation() (Location, error) {
	x := Coordinate(rand.IntN(int(LocationMaxX-LocationMinX+1)) + int(LocationMinX)) //nolint:gosec // not security sensitive
	y := Coordinate(rand.IntN(int(LocationMaxY-LocationMinY+1)) + int(LocationMinY)) //nolint:gosec // not security sensitive
	return NewLocation(x, y)
}

// Validate reports whether the location was built by a constructor.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) X() Coordinate {
	return l.x
}

func (l Location) Y() Coordinate {
	return l.y
}

// String implements fmt.Stringer as "Location(x,y)".
func (l Location) String() string {
	return fmt.Sprintf("Location(%d,%d)", l.x, l.y)
}

// IsEqual compares coordinates of two constructed locations.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.x == other.x && l.y == other.y, nil
}

// DistanceTo returns the Manhattan distance |dx| + |dy| between two locations.
// The result is symmetric and is zero only when the locations are equal.
//
// Example:
//
//	from, _ := kernel.NewLocation(1, 1)
//	to, _ := kernel.NewLocation(4, 5)
//	d, _ := from.DistanceTo(to) // 7
func (l Location) DistanceTo(other Location) (int, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	dx := abs(l.x - other.x)
	dy := abs(l.y - other.y)
	return int(dx) + int(dy), nil
}

// StepToward returns the neighbouring location one unit closer to target.
//
// The step is taken along the axis with the larger remaining difference; when both
// differences are equal the horizontal (x) axis goes first. A location already at the
// target is returned unchanged, so repeated calls never overshoot.
//
// Example:
//
//	from, _ := kernel.NewLocation(1, 1)
//	to, _ := kernel.NewLocation(3, 2)
//	next, _ := from.StepToward(to) // Location(2,1)
func (l Location) StepToward(target Location) (Location, error) {
	if err := errors.Join(l.Validate(), target.Validate()); err != nil {
		return Location{}, err
	}

	dx := target.x - l.x
	dy := target.y - l.y

	next := l
	switch {
	case dx == 0 && dy == 0:
		return l, nil
	case abs(dx) >= abs(dy):
		next.x += sign(dx)
	default:
		next.y += sign(dy)
	}

	return next, nil
}

// setX and setY use pointer receivers so construction can validate each axis in
// place while every public method keeps a value receiver.
func (l *Location) setX(x Coordinate) error {
	if x < LocationMinX || x > LocationMaxX {
		return errs.NewValueIsOutOfRangeError("x", x, LocationMinX, LocationMaxX)
	}

	l.x = x
	return nil
}

func (l *Location) setY(y Coordinate) error {
	if y < LocationMinY || y > LocationMaxY {
		return errs.NewValueIsOutOfRangeError("y", y, LocationMinY, LocationMaxY)
	}

	l.y = y
	return nil
}

func abs(c Coordinate) Coordinate {
	if c < 0 {
		return -c
	}
	return c
}

func sign(c Coordinate) Coordinate {
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	default:
		return 0
	}
}
