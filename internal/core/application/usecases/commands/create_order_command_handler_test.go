package commands_test

import (
	"context"
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(),
		"Mireille K.", "+243811234567", "12 Av. Kasavubu, Gombe",
		testGeoPoint(t), testMoney(t, 150000), testItems(t),
	)
	require.NoError(t, err)
	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	cmd := testCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(orderRepo).Once()

	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged",
		ctx, cmd.OrderID(), order.Unknown, order.PendingDeliveryChoice).
		Return(nil).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, publisher)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := context.Background()
	cmd := commands.CreateOrderCommand{} // not constructed properly

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, loosePublisher())
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := context.Background()
	cmd := testCreateOrderCommand(t)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	uow.On("OrderRepository").Return(orderRepo).Once()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, loosePublisher())
	err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "duplicate key")
}

func TestNewCreateOrderCommand_Validation(t *testing.T) {
	t.Run("empty_items_are_rejected", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), kernel.NewUUID(),
			"Mireille K.", "+243811234567", "12 Av. Kasavubu, Gombe",
			testGeoPoint(t), testMoney(t, 150000), nil,
		)

		require.ErrorIs(t, err, commands.ErrItemsAreRequired)
	})

	t.Run("invalid_order_id_is_rejected", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.UUID{}, kernel.NewUUID(),
			"Mireille K.", "+243811234567", "12 Av. Kasavubu, Gombe",
			testGeoPoint(t), testMoney(t, 150000), testItems(t),
		)

		require.Error(t, err)
	})
}
