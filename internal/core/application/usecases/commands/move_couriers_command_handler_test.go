package commands_test

import (
	"errors"
	"testing"

	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/kernel"
	"deliverydispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMoveCouriersCommandHandler_Handle_MovesWithoutArriving(t *testing.T) {
	ctx := t.Context()
	o, c := newAssignedPair(t, courier.Bicycle(), [2]kernel.Coordinate{1, 1}, [2]kernel.Coordinate{5, 5})

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Assigned).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Busy).Return([]*courier.Courier{c}, nil).Once()
	courierRepo.On("Update", ctx, c).Return(nil).Once()
	uow.On("Commit", ctx).Return(true, nil).Once()

	metrics := new(MockDispatchMetrics)
	metrics.On("OrdersCompleted", 0).Once()

	handler := commands.NewMoveCouriersCommandHandler(factory, metrics)
	changed, err := handler.Handle(ctx, commands.NewMoveCouriersCommand())

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, newLocation(t, 2, 2), c.Location())
	assert.Equal(t, order.Assigned, o.Status())
	assert.True(t, c.IsBusy())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestMoveCouriersCommandHandler_Handle_CompletesOnArrival(t *testing.T) {
	ctx := t.Context()
	o, c := newAssignedPair(t, courier.Car(), [2]kernel.Coordinate{3, 3}, [2]kernel.Coordinate{4, 5})

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Assigned).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Busy).Return([]*courier.Courier{c}, nil).Once()
	orderRepo.On("Update", ctx, o).Return(nil).Once()
	courierRepo.On("Update", ctx, c).Return(nil).Once()
	uow.On("Commit", ctx).Return(true, nil).Once()

	metrics := new(MockDispatchMetrics)
	metrics.On("OrdersCompleted", 1).Once()

	handler := commands.NewMoveCouriersCommandHandler(factory, metrics)
	changed, err := handler.Handle(ctx, commands.NewMoveCouriersCommand())

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, o.Location(), c.Location())
	assert.Equal(t, order.Completed, o.Status())
	assert.True(t, c.IsFree())
	assert.Len(t, o.GetDomainEvents(), 1)
	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestMoveCouriersCommandHandler_Handle_MissingCourierAbortsRun(t *testing.T) {
	ctx := t.Context()
	o, c := newAssignedPair(t, courier.Car(), [2]kernel.Coordinate{1, 1}, [2]kernel.Coordinate{2, 1})
	other := newFreeCourier(t, "Other", courier.Car(), 9, 9)
	require.NoError(t, other.SetBusy())

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Assigned).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Busy).Return([]*courier.Courier{other}, nil).Once()

	handler := commands.NewMoveCouriersCommandHandler(factory, nil)
	changed, err := handler.Handle(ctx, commands.NewMoveCouriersCommand())

	require.ErrorIs(t, err, commands.ErrAssignedCourierNotFound)
	assert.False(t, changed)
	assert.Equal(t, newLocation(t, 1, 1), c.Location())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	courierRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMoveCouriersCommandHandler_Handle_NoAssignedOrders(t *testing.T) {
	ctx := t.Context()
	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Assigned).Return([]*order.Order{}, nil).Once()

	handler := commands.NewMoveCouriersCommandHandler(factory, nil)
	changed, err := handler.Handle(ctx, commands.NewMoveCouriersCommand())

	require.NoError(t, err)
	assert.False(t, changed)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestMoveCouriersCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	o, c := newAssignedPair(t, courier.Pedestrian(), [2]kernel.Coordinate{1, 1}, [2]kernel.Coordinate{1, 3})

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Assigned).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Busy).Return([]*courier.Courier{c}, nil).Once()
	courierRepo.On("Update", ctx, c).Return(nil).Once()
	uow.On("Commit", ctx).Return(false, errors.New("commit failed")).Once()

	handler := commands.NewMoveCouriersCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, commands.NewMoveCouriersCommand())

	require.EqualError(t, err, "commit failed")
}

func TestMoveCouriersCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	handler := commands.NewMoveCouriersCommandHandler(factory, nil)

	_, err := handler.Handle(t.Context(), commands.MoveCouriersCommand{})

	require.ErrorIs(t, err, commands.ErrMoveCouriersCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
