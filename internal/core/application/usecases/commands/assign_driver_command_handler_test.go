package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignDriverCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()

	testOrder := testPendingOrder(t)
	driverID := kernel.NewUUID()
	testDriver := testDriver(t, driverID)

	cmd, err := commands.NewAssignDriverCommand(testOrder.ID(), driverID, testMoney(t, 20000), true)
	require.NoError(t, err)

	locations := new(MockDriverLocations)
	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	deliveryRepo := new(MockDeliveryRepository)
	sellerRepo := new(MockSellerRepository)
	uow := new(MockUoW)

	// The availability re-check runs inside the transaction, after the driver
	// read and right before the claim write.
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		locations.On("Get", ctx, driverID).
			Return(&ports.DriverPosition{DriverID: driverID, Location: testGeoPoint(t), Available: true}, nil).
			Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		orderRepo.On("UpdateConditional", ctx, mock.AnythingOfType("*order.Order"), order.PendingDeliveryChoice).
			Return(nil).Once(),
		uow.On("SellerRepository").Return(sellerRepo).Once(),
		sellerRepo.On("Get", ctx, testOrder.SellerID()).Return(testSeller(t, testOrder.SellerID()), nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignDriverCommandHandler(factory, locations, loosePublisher())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.AppDelivering, testOrder.Status())
	assert.Equal(t, order.MethodPlatformDelivery, testOrder.DeliveryMethod())
	require.NotNil(t, testOrder.Driver())
	assert.True(t, testOrder.Driver().IsEqual(driverID))
	locations.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_PrepaidSkipsAwaitingPayment(t *testing.T) {
	ctx := context.Background()

	testOrder := testPendingOrder(t)
	driverID := kernel.NewUUID()
	testDriver := testDriver(t, driverID)

	cmd, err := commands.NewAssignDriverCommand(testOrder.ID(), driverID, testMoney(t, 20000), false)
	require.NoError(t, err)

	locations := new(MockDriverLocations)
	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	deliveryRepo := new(MockDeliveryRepository)
	sellerRepo := new(MockSellerRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		locations.On("Get", ctx, driverID).
			Return(&ports.DriverPosition{DriverID: driverID, Location: testGeoPoint(t), Available: true}, nil).
			Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		orderRepo.On("UpdateConditional", ctx, mock.AnythingOfType("*order.Order"), order.PendingDeliveryChoice).
			Return(nil).Once(),
		uow.On("SellerRepository").Return(sellerRepo).Once(),
		sellerRepo.On("Get", ctx, testOrder.SellerID()).Return(testSeller(t, testOrder.SellerID()), nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignDriverCommandHandler(factory, locations, loosePublisher())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.PaymentOK, testOrder.Status())
	assert.Equal(t, order.MethodPlatformDelivery, testOrder.DeliveryMethod())
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_DriverWentOffline(t *testing.T) {
	ctx := context.Background()

	testOrder := testPendingOrder(t)
	driverID := kernel.NewUUID()
	testDriver := testDriver(t, driverID)

	cmd, err := commands.NewAssignDriverCommand(testOrder.ID(), driverID, testMoney(t, 20000), true)
	require.NoError(t, err)

	locations := new(MockDriverLocations)
	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	// The live feed says offline inside the transaction: everything rolls back
	// before any order read or write.
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		locations.On("Get", ctx, driverID).
			Return(&ports.DriverPosition{DriverID: driverID, Location: testGeoPoint(t), Available: false}, nil).
			Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignDriverCommandHandler(factory, locations, loosePublisher())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDriverNoLongerAvailable)
	assert.Equal(t, order.PendingDeliveryChoice, testOrder.Status())
	orderRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_DriverNeverReported(t *testing.T) {
	ctx := context.Background()

	testOrder := testPendingOrder(t)
	driverID := kernel.NewUUID()
	testDriver := testDriver(t, driverID)

	cmd, err := commands.NewAssignDriverCommand(testOrder.ID(), driverID, testMoney(t, 20000), true)
	require.NoError(t, err)

	locations := new(MockDriverLocations)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		locations.On("Get", ctx, driverID).Return(nil, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignDriverCommandHandler(factory, locations, loosePublisher())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrDriverNoLongerAvailable)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_OrderAlreadyClaimed(t *testing.T) {
	ctx := context.Background()

	// First read sees pending, the conditional write loses the race, and the
	// re-read shows the order already claimed by another driver.
	first := testPendingOrder(t)
	second := testPendingOrder(t)
	require.NoError(t, second.AssignDriver(kernel.NewUUID()))

	driverID := kernel.NewUUID()
	testDriver := testDriver(t, driverID)

	cmd, err := commands.NewAssignDriverCommand(first.ID(), driverID, testMoney(t, 20000), true)
	require.NoError(t, err)

	locations := new(MockDriverLocations)
	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", ctx, driverID).Return(testDriver, nil).Once(),
		locations.On("Get", ctx, driverID).
			Return(&ports.DriverPosition{DriverID: driverID, Location: testGeoPoint(t), Available: true}, nil).
			Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, first.ID()).Return(first, nil).Once(),
		orderRepo.On("UpdateConditional", ctx, mock.AnythingOfType("*order.Order"), order.PendingDeliveryChoice).
			Return(errs.NewConcurrentModificationError("order", first.ID())).Once(),
		orderRepo.On("Get", ctx, first.ID()).Return(second, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssignmentUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignDriverCommandHandler(factory, locations, loosePublisher())
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	orderRepo.AssertExpectations(t)
}
