package commands_test

import (
	"context"
	"errors"
	"testing"

	"deliverydispatch/internal/core/application/usecases/commands"
	"deliverydispatch/internal/core/domain/model/courier"
	"deliverydispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignOrdersCommandHandler_Handle_AssignsClosestCourier(t *testing.T) {
	ctx := t.Context()

	o := newCreatedOrder(t, 5, 5)
	far := newFreeCourier(t, "Far", courier.Car(), 1, 1)
	near := newFreeCourier(t, "Near", courier.Pedestrian(), 5, 6)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Created).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Free).Return([]*courier.Courier{far, near}, nil).Once()
	orderRepo.On("Update", ctx, o).Return(nil).Once()
	courierRepo.On("Update", ctx, near).Return(nil).Once()
	uow.On("Commit", ctx).Return(true, nil).Once()

	metrics := new(MockDispatchMetrics)
	metrics.On("OrdersAssigned", 1).Once()

	handler := commands.NewAssignOrdersCommandHandler(factory, metrics)
	changed, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, order.Assigned, o.Status())
	assert.True(t, o.CourierID().IsEqual(near.ID()))
	assert.True(t, near.IsBusy())
	assert.True(t, far.IsFree())
	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	metrics.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_EachCourierTakesOneOrder(t *testing.T) {
	ctx := t.Context()

	first := newCreatedOrder(t, 2, 2)
	second := newCreatedOrder(t, 2, 3)
	third := newCreatedOrder(t, 9, 9)
	a := newFreeCourier(t, "A", courier.Bicycle(), 2, 2)
	b := newFreeCourier(t, "B", courier.Bicycle(), 10, 10)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Created).Return([]*order.Order{first, second, third}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Free).Return([]*courier.Courier{a, b}, nil).Once()
	orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Twice()
	courierRepo.On("Update", ctx, mock.AnythingOfType("*courier.Courier")).Return(nil).Twice()
	uow.On("Commit", ctx).Return(true, nil).Once()

	handler := commands.NewAssignOrdersCommandHandler(factory, nil)
	changed, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, first.CourierID().IsEqual(a.ID()))
	assert.True(t, second.CourierID().IsEqual(b.ID()), "A already left the pool")
	assert.Equal(t, order.Created, third.Status(), "no courier left for the third order")
	assert.Nil(t, third.CourierID())
	uow.AssertExpectations(t)
}

func TestAssignOrdersCommandHandler_Handle_NothingToDo(t *testing.T) {
	t.Run("no created orders", func(t *testing.T) {
		ctx := t.Context()
		orderRepo := new(MockOrderRepository)
		courierRepo := new(MockCourierRepository)
		factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

		orderRepo.On("GetAllWithStatus", ctx, order.Created).Return([]*order.Order{}, nil).Once()

		handler := commands.NewAssignOrdersCommandHandler(factory, nil)
		changed, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

		require.NoError(t, err)
		assert.False(t, changed)
		courierRepo.AssertNotCalled(t, "GetAllWithStatus", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("no free couriers", func(t *testing.T) {
		ctx := t.Context()
		o := newCreatedOrder(t, 3, 3)
		orderRepo := new(MockOrderRepository)
		courierRepo := new(MockCourierRepository)
		factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

		orderRepo.On("GetAllWithStatus", ctx, order.Created).Return([]*order.Order{o}, nil).Once()
		courierRepo.On("GetAllWithStatus", ctx, courier.Free).Return([]*courier.Courier{}, nil).Once()

		handler := commands.NewAssignOrdersCommandHandler(factory, nil)
		changed, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, order.Created, o.Status())
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestAssignOrdersCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)
	handler := commands.NewAssignOrdersCommandHandler(factory, nil)

	_, err := handler.Handle(t.Context(), commands.AssignOrdersCommand{})

	require.ErrorIs(t, err, commands.ErrAssignOrdersCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestAssignOrdersCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	uow := new(MockUoW)
	factory := new(MockUoWFactory)

	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewAssignOrdersCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

	require.EqualError(t, err, "begin error")
}

func TestAssignOrdersCommandHandler_Handle_UpdateErrorAbortsRun(t *testing.T) {
	ctx := t.Context()
	o := newCreatedOrder(t, 4, 4)
	c := newFreeCourier(t, "Solo", courier.Car(), 4, 5)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Created).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Free).Return([]*courier.Courier{c}, nil).Once()
	orderRepo.On("Update", ctx, o).Return(errors.New("database error")).Once()

	handler := commands.NewAssignOrdersCommandHandler(factory, nil)
	changed, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

	require.EqualError(t, err, "database error")
	assert.False(t, changed)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", ctx)
}

func TestAssignOrdersCommandHandler_Handle_LoadError(t *testing.T) {
	ctx := t.Context()
	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, _ := expectTransaction(ctx, orderRepo, courierRepo)

	loadErr := errors.New("database error")
	orderRepo.On("GetAllWithStatus", ctx, order.Created).Return(nil, loadErr).Once()

	handler := commands.NewAssignOrdersCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

	require.ErrorIs(t, err, loadErr)
}

func TestAssignOrdersCommandHandler_Handle_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	o := newCreatedOrder(t, 4, 4)
	c := newFreeCourier(t, "Solo", courier.Car(), 4, 5)

	orderRepo := new(MockOrderRepository)
	courierRepo := new(MockCourierRepository)
	factory, uow := expectTransaction(ctx, orderRepo, courierRepo)

	orderRepo.On("GetAllWithStatus", ctx, order.Created).Return([]*order.Order{o}, nil).Once()
	courierRepo.On("GetAllWithStatus", ctx, courier.Free).
		Run(func(mock.Arguments) { cancel() }).
		Return([]*courier.Courier{c}, nil).Once()

	handler := commands.NewAssignOrdersCommandHandler(factory, nil)
	_, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, order.Created, o.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
