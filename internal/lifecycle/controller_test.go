package lifecycle_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/lifecycle"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/reconciler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The controller tests exercise the handle registry around a real reconciler
// whose gateway never answers, so reconciliations only end when released.

type pendingGateway struct{}

func (pendingGateway) InitiateDeposit(
	_ context.Context, _ kernel.UUID, _ kernel.Money, _ string, _ string,
) error {
	return nil
}

func (pendingGateway) CheckPayment(_ context.Context, _ kernel.UUID) (ports.DepositStatus, error) {
	return ports.DepositStatus{Status: payment.StatusPending}, nil
}

type fakeStore struct {
	mu       sync.Mutex
	orders   map[kernel.UUID]*order.Order
	attempts map[kernel.UUID]*payment.Attempt
}

type fakeUoW struct{ store *fakeStore }

func (u *fakeUoW) Begin(_ context.Context) error    { return nil }
func (u *fakeUoW) Commit(_ context.Context) error   { return nil }
func (u *fakeUoW) Rollback(_ context.Context) error { return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository     { return &fakeOrderRepo{u.store} }
func (u *fakeUoW) DeliveryRepository() ports.DeliveryRepository { return nil }
func (u *fakeUoW) DriverRepository() ports.DriverRepository   { return nil }
func (u *fakeUoW) SellerRepository() ports.SellerRepository   { return nil }
func (u *fakeUoW) PaymentAttemptRepository() ports.PaymentAttemptRepository {
	return &fakeAttemptRepo{u.store}
}
func (u *fakeUoW) ManualClaimRepository() ports.ManualClaimRepository { return nil }

type fakeUoWFactory struct{ store *fakeStore }

func (f fakeUoWFactory) Create() ports.UnitOfWork { return &fakeUoW{store: f.store} }

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[aggregate.ID()] = aggregate
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	return r.Add(context.Background(), aggregate)
}

func (r *fakeOrderRepo) UpdateConditional(
	_ context.Context, aggregate *order.Order, _ order.Status,
) error {
	return r.Add(context.Background(), aggregate)
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	aggregate, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return aggregate, nil
}

func (r *fakeOrderRepo) GetByDeposit(_ context.Context, depositID kernel.UUID) (*order.Order, error) {
	return nil, errs.NewObjectNotFoundError("depositId", depositID)
}

func (r *fakeOrderRepo) GetAllBySeller(_ context.Context, _ kernel.UUID) ([]*order.Order, error) {
	return nil, nil
}

type fakeAttemptRepo struct{ store *fakeStore }

func (r *fakeAttemptRepo) Add(_ context.Context, aggregate *payment.Attempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.attempts[aggregate.DepositID()] = aggregate
	return nil
}

func (r *fakeAttemptRepo) Update(_ context.Context, aggregate *payment.Attempt) error {
	return r.Add(context.Background(), aggregate)
}

func (r *fakeAttemptRepo) Get(_ context.Context, depositID kernel.UUID) (*payment.Attempt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	aggregate, ok := r.store.attempts[depositID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("depositId", depositID)
	}
	return aggregate, nil
}

func (r *fakeAttemptRepo) GetAllStale(_ context.Context, _ time.Time) ([]*payment.Attempt, error) {
	return nil, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishOrderStatusChanged(
	_ context.Context, _ kernel.UUID, _, _ order.Status,
) error {
	return nil
}

func (noopPublisher) PublishPaymentProgress(_ context.Context, _ kernel.UUID, _ string) error {
	return nil
}

func newTestController(t *testing.T) (*lifecycle.Controller, *fakeStore) {
	t.Helper()

	store := &fakeStore{
		orders:   make(map[kernel.UUID]*order.Order),
		attempts: make(map[kernel.UUID]*payment.Attempt),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	engine := reconciler.NewReconciler(
		pendingGateway{}, fakeUoWFactory{store},
		commands.ConfirmPaymentCommandHandler{}, commands.MarkSellerVerifiedCommandHandler{},
		noopPublisher{},
		reconciler.PollSchedule{
			Interval:               5 * time.Millisecond,
			MaxPolls:               100000,
			PersonToPersonMaxPolls: 100000,
		},
		logger,
	)

	controller := lifecycle.NewController(
		commands.CreateOrderCommandHandler{},
		commands.ChooseSellerDeliveryCommandHandler{},
		commands.AssignDriverCommandHandler{},
		commands.CaptureProofCommandHandler{},
		commands.CancelOrderCommandHandler{},
		queries.GetCandidateDriversQueryHandler{},
		queries.GetOrderQueryHandler{},
		queries.GetSellerOrdersQueryHandler{},
		engine, logger,
	)

	return controller, store
}

func appDeliveringOrder(t *testing.T) *order.Order {
	t.Helper()

	dropoff, err := kernel.NewGeoPoint(-4.325, 15.3222)
	require.NoError(t, err)
	total, err := kernel.NewMoney(150000, "CDF")
	require.NoError(t, err)
	unitPrice, err := kernel.NewMoney(75000, "CDF")
	require.NoError(t, err)
	item, err := order.NewItem("Wax print fabric", 2, unitPrice)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(),
		"Mireille K.", "+243811234567", "12 Av. Kasavubu, Gombe",
		dropoff, total, []order.Item{item},
	)
	require.NoError(t, err)
	require.NoError(t, aggregate.AssignDriver(kernel.NewUUID()))
	return aggregate
}

func awaitOutcome(t *testing.T, h *reconciler.Handle) reconciler.Outcome {
	t.Helper()

	select {
	case outcome := <-h.Done():
		return outcome
	case <-time.After(2 * time.Second):
		t.Fatal("reconciliation did not finish in time")
		return reconciler.OutcomeUnknown
	}
}

func TestController_Release_StopsOrderReconciliations(t *testing.T) {
	ctx := context.Background()

	controller, store := newTestController(t)

	aggregate := appDeliveringOrder(t)
	store.orders[aggregate.ID()] = aggregate

	fee, err := kernel.NewMoney(20000, "CDF")
	require.NoError(t, err)

	handle, err := controller.StartCourierFeeDeposit(
		ctx, aggregate.ID(), fee, "+243811234567", false)
	require.NoError(t, err)

	controller.Release(aggregate.ID())

	assert.Equal(t, reconciler.OutcomeStopped, awaitOutcome(t, handle))
}

func TestController_Release_OtherOrdersKeepRunning(t *testing.T) {
	ctx := context.Background()

	controller, store := newTestController(t)

	first := appDeliveringOrder(t)
	second := appDeliveringOrder(t)
	store.orders[first.ID()] = first
	store.orders[second.ID()] = second

	fee, err := kernel.NewMoney(20000, "CDF")
	require.NoError(t, err)

	firstHandle, err := controller.StartCourierFeeDeposit(
		ctx, first.ID(), fee, "+243811234567", false)
	require.NoError(t, err)
	secondHandle, err := controller.StartCourierFeeDeposit(
		ctx, second.ID(), fee, "+243811234567", false)
	require.NoError(t, err)

	controller.Release(first.ID())
	assert.Equal(t, reconciler.OutcomeStopped, awaitOutcome(t, firstHandle))

	// The second order's reconciliation is untouched.
	select {
	case <-secondHandle.Done():
		t.Fatal("unrelated reconciliation was stopped")
	case <-time.After(50 * time.Millisecond):
	}

	controller.Shutdown()
	assert.Equal(t, reconciler.OutcomeStopped, awaitOutcome(t, secondHandle))
}

func TestController_Release_UnknownOrderIsNoOp(t *testing.T) {
	controller, _ := newTestController(t)
	controller.Release(kernel.NewUUID())
}
