package commands_test

import (
	"context"
	"testing"

	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/core/domain/model/order"
	"deliverydispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllWithStatus(ctx context.Context, status courier.Status) ([]*courier.Courier, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllWithStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

// MockUoW satisfies every unit of work flavour the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockLocationResolver struct{ mock.Mock }

func (m *MockLocationResolver) Resolve(ctx context.Context, street string) (kernel.Location, error) {
	args := m.Called(ctx, street)
	return args.Get(0).(kernel.Location), args.Error(1)
}

type MockDispatchMetrics struct{ mock.Mock }

func (m *MockDispatchMetrics) OrdersAssigned(n int) {
	m.Called(n)
}

func (m *MockDispatchMetrics) OrdersCompleted(n int) {
	m.Called(n)
}

func newLocation(t *testing.T, x, y kernel.Coordinate) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(x, y)
	require.NoError(t, err)
	return loc
}

func newCreatedOrder(t *testing.T, x, y kernel.Coordinate) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), newLocation(t, x, y))
	require.NoError(t, err)
	return o
}

func newFreeCourier(t *testing.T, name string, transport courier.Transport, x, y kernel.Coordinate) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(name, transport, newLocation(t, x, y))
	require.NoError(t, err)
	return c
}

// newAssignedPair returns an Assigned order and the Busy courier carrying it.
func newAssignedPair(
	t *testing.T,
	transport courier.Transport,
	from, to [2]kernel.Coordinate,
) (*order.Order, *courier.Courier) {
	t.Helper()
	o := newCreatedOrder(t, to[0], to[1])
	c := newFreeCourier(t, "Carrier", transport, from[0], from[1])
	require.NoError(t, o.Assign(c))
	require.NoError(t, c.SetBusy())
	return o, c
}

// expectTransaction wires a factory and uow that hand out the given repositories.
func expectTransaction(
	ctx context.Context,
	orderRepo *MockOrderRepository,
	courierRepo *MockCourierRepository,
) (*MockUoWFactory, *MockUoW) {
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("CourierRepository").Return(courierRepo).Maybe()
	uow.On("OrderRepository").Return(orderRepo).Maybe()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()
	return factory, uow
}
