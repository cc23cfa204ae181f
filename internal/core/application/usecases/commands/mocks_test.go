package commands_test

import (
	"context"
	"io"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/seller"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateConditional(
	ctx context.Context, o *order.Order, expected order.Status,
) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByDeposit(ctx context.Context, depositID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, depositID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllBySeller(ctx context.Context, sellerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) UpdateConditional(
	ctx context.Context, d *delivery.Delivery, expected delivery.Status,
) error {
	args := m.Called(ctx, d, expected)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetAllByDriver(
	ctx context.Context, driverID kernel.UUID,
) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*driver.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockSellerRepository struct{ mock.Mock }

func (m *MockSellerRepository) Add(ctx context.Context, s *seller.Seller) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSellerRepository) Update(ctx context.Context, s *seller.Seller) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSellerRepository) Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seller.Seller), args.Error(1)
}

func (m *MockSellerRepository) GetAllExpired(ctx context.Context, before time.Time) ([]*seller.Seller, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seller.Seller), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

func (m *MockUoW) SellerRepository() ports.SellerRepository {
	args := m.Called()
	return args.Get(0).(ports.SellerRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockAssignmentUoWFactory struct{ mock.Mock }

func (m *MockAssignmentUoWFactory) Create() commands.AssignmentUoW {
	args := m.Called()
	return args.Get(0).(commands.AssignmentUoW)
}

type MockFulfillmentUoWFactory struct{ mock.Mock }

func (m *MockFulfillmentUoWFactory) Create() commands.FulfillmentUoW {
	args := m.Called()
	return args.Get(0).(commands.FulfillmentUoW)
}

type MockSellerUoWFactory struct{ mock.Mock }

func (m *MockSellerUoWFactory) Create() commands.SellerUoW {
	args := m.Called()
	return args.Get(0).(commands.SellerUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishOrderStatusChanged(
	ctx context.Context, orderID kernel.UUID, from, to order.Status,
) error {
	args := m.Called(ctx, orderID, from, to)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishPaymentProgress(
	ctx context.Context, depositID kernel.UUID, stage string,
) error {
	args := m.Called(ctx, depositID, stage)
	return args.Error(0)
}

type MockDriverLocations struct{ mock.Mock }

func (m *MockDriverLocations) Get(ctx context.Context, driverID kernel.UUID) (*ports.DriverPosition, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.DriverPosition), args.Error(1)
}

func (m *MockDriverLocations) GetAll(ctx context.Context) ([]ports.DriverPosition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.DriverPosition), args.Error(1)
}

type MockObjectStorage struct{ mock.Mock }

func (m *MockObjectStorage) Upload(
	ctx context.Context, key string, contentType string, body io.Reader,
) (string, error) {
	args := m.Called(ctx, key, contentType, body)
	return args.String(0), args.Error(1)
}

// loosePublisher is a publisher that accepts anything; used by tests that do
// not assert on notifications.
func loosePublisher() *MockEventPublisher {
	publisher := new(MockEventPublisher)
	publisher.On("PublishOrderStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()
	publisher.On("PublishPaymentProgress", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Maybe()
	return publisher
}

func testGeoPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()

	point, err := kernel.NewGeoPoint(-4.325, 15.3222)
	require.NoError(t, err)
	return point
}

func testMoney(t *testing.T, minorUnits int64) kernel.Money {
	t.Helper()

	amount, err := kernel.NewMoney(minorUnits, "CDF")
	require.NoError(t, err)
	return amount
}

func testItems(t *testing.T) []order.Item {
	t.Helper()

	item, err := order.NewItem("Wax print fabric", 2, testMoney(t, 75000))
	require.NoError(t, err)
	return []order.Item{item}
}

func testPendingOrder(t *testing.T) *order.Order {
	t.Helper()

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(),
		"Mireille K.", "+243811234567", "12 Av. Kasavubu, Gombe",
		testGeoPoint(t), testMoney(t, 150000), testItems(t),
	)
	require.NoError(t, err)
	return aggregate
}

func testSeller(t *testing.T, id kernel.UUID) *seller.Seller {
	t.Helper()

	s, err := seller.NewSeller(id, "Marche Kin", "+243899876543", testGeoPoint(t))
	require.NoError(t, err)
	return s
}

func testDriver(t *testing.T, id kernel.UUID) *driver.Driver {
	t.Helper()

	d, err := driver.NewDriver(id, "Patrice", "+243811111111", testGeoPoint(t), true)
	require.NoError(t, err)
	return d
}
