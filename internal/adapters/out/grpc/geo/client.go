// Package geo resolves street addresses to grid locations through the geo service.
package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/pkg/errs"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	// GetGeolocationMethod is the full gRPC method name of the geo lookup.
	GetGeolocationMethod = "/geo.Geo/GetGeolocation"

	DefaultTimeout = 5 * time.Second
)

var ErrStreetIsRequired = errors.New("street is required")

// GetGeolocationRequest is the request message of GetGeolocation (see geo.proto).
type GetGeolocationRequest struct {
	Street string
}

// GetGeolocationReply is the reply message of GetGeolocation. A nil Location means
// the service does not know the street.
type GetGeolocationReply struct {
	Location *Location
}

type Location struct {
	X int32
	Y int32
}

// Client implements ports.LocationResolver on top of a gRPC connection.
type Client struct {
	conn    grpc.ClientConnInterface
	timeout time.Duration
}

// Dial opens a plaintext connection to the geo service. The connection is lazy;
// no network traffic happens until the first call.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("geo service %s: %w", target, err)
	}
	return conn, nil
}

// NewClient wraps conn. A non-positive timeout falls back to DefaultTimeout.
func NewClient(conn grpc.ClientConnInterface, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		conn:    conn,
		timeout: timeout,
	}
}

// Resolve returns the grid location of street.
func (c *Client) Resolve(ctx context.Context, street string) (kernel.Location, error) {
	street = strings.TrimSpace(street)
	if street == "" {
		return kernel.Location{}, ErrStreetIsRequired
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reply GetGeolocationReply
	err := c.conn.Invoke(ctx, GetGeolocationMethod,
		&GetGeolocationRequest{Street: street}, &reply,
		grpc.ForceCodec(wireCodec{}),
	)
	if err != nil {
		return kernel.Location{}, fmt.Errorf("get geolocation of %q: %w", street, err)
	}
	if reply.Location == nil {
		return kernel.Location{}, errs.NewObjectNotFoundError("street", street)
	}

	location, err := reply.Location.toKernel()
	if err != nil {
		return kernel.Location{}, fmt.Errorf("geo service returned %d,%d for %q: %w",
			reply.Location.X, reply.Location.Y, street, err)
	}
	return location, nil
}

// toKernel range-checks before narrowing to kernel.Coordinate so that large
// values cannot wrap around into the grid.
func (l Location) toKernel() (kernel.Location, error) {
	x, errX := toCoordinate("x", l.X, kernel.LocationMinX, kernel.LocationMaxX)
	y, errY := toCoordinate("y", l.Y, kernel.LocationMinY, kernel.LocationMaxY)
	if err := errors.Join(errX, errY); err != nil {
		return kernel.Location{}, err
	}
	return kernel.NewLocation(x, y)
}

func toCoordinate(name string, v int32, minValue, maxValue kernel.Coordinate) (kernel.Coordinate, error) {
	if v < int32(minValue) || v > int32(maxValue) {
		return 0, errs.NewValueIsOutOfRangeError(name, v, minValue, maxValue)
	}
	return kernel.Coordinate(v), nil
}
