package reconciler_test

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/domain/model/seller"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// memoryStore is shared in-memory persistence for reconciler tests. The
// reconciler and the command handlers it drives each create their own units of
// work, so the store is what ties their writes together. Statuses are recorded
// separately on write so the conditional update compares against the last
// committed status, not the in-flight aggregate.
type memoryStore struct {
	mu       sync.Mutex
	orders   map[kernel.UUID]*order.Order
	statuses map[kernel.UUID]order.Status
	sellers  map[kernel.UUID]*seller.Seller
	attempts map[kernel.UUID]*payment.Attempt
	claims   map[kernel.UUID]*payment.ManualClaim
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:   make(map[kernel.UUID]*order.Order),
		statuses: make(map[kernel.UUID]order.Status),
		sellers:  make(map[kernel.UUID]*seller.Seller),
		attempts: make(map[kernel.UUID]*payment.Attempt),
		claims:   make(map[kernel.UUID]*payment.ManualClaim),
	}
}

func (s *memoryStore) putOrder(aggregate *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[aggregate.ID()] = aggregate
	s.statuses[aggregate.ID()] = aggregate.Status()
}

func (s *memoryStore) putSeller(aggregate *seller.Seller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sellers[aggregate.ID()] = aggregate
}

// commitStatus overrides the last committed status of an order, standing in
// for a writer that slipped in after the caller's read.
func (s *memoryStore) commitStatus(id kernel.UUID, status order.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[id] = status
}

func (s *memoryStore) orderStatus(id kernel.UUID) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statuses[id]
}

func (s *memoryStore) attempt(depositID kernel.UUID) *payment.Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[depositID]
}

func (s *memoryStore) claim(depositID kernel.UUID) *payment.ManualClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims[depositID]
}

func (s *memoryStore) seller(id kernel.UUID) *seller.Seller {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sellers[id]
}

// memoryUoW satisfies both ports.UnitOfWork and the command-side unit of work
// interfaces. Transactions are a no-op: every write lands in the store
// directly.
type memoryUoW struct {
	store *memoryStore
}

func (u *memoryUoW) Begin(_ context.Context) error    { return nil }
func (u *memoryUoW) Commit(_ context.Context) error   { return nil }
func (u *memoryUoW) Rollback(_ context.Context) error { return nil }

func (u *memoryUoW) OrderRepository() ports.OrderRepository {
	return &memoryOrderRepo{store: u.store}
}

func (u *memoryUoW) SellerRepository() ports.SellerRepository {
	return &memorySellerRepo{store: u.store}
}

func (u *memoryUoW) PaymentAttemptRepository() ports.PaymentAttemptRepository {
	return &memoryAttemptRepo{store: u.store}
}

func (u *memoryUoW) ManualClaimRepository() ports.ManualClaimRepository {
	return &memoryClaimRepo{store: u.store}
}

func (u *memoryUoW) DeliveryRepository() ports.DeliveryRepository {
	return unusedDeliveryRepo{}
}

func (u *memoryUoW) DriverRepository() ports.DriverRepository {
	return unusedDriverRepo{}
}

type uowFactory struct{ store *memoryStore }

func (f uowFactory) Create() ports.UnitOfWork { return &memoryUoW{store: f.store} }

type orderUoWFactory struct{ store *memoryStore }

func (f orderUoWFactory) Create() commands.OrderUoW { return &memoryUoW{store: f.store} }

type sellerUoWFactory struct{ store *memoryStore }

func (f sellerUoWFactory) Create() commands.SellerUoW { return &memoryUoW{store: f.store} }

type memoryOrderRepo struct {
	store *memoryStore
}

func (r *memoryOrderRepo) Add(_ context.Context, aggregate *order.Order) error {
	r.store.putOrder(aggregate)
	return nil
}

func (r *memoryOrderRepo) Update(_ context.Context, aggregate *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.orders[aggregate.ID()]; !ok {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}
	r.store.orders[aggregate.ID()] = aggregate
	r.store.statuses[aggregate.ID()] = aggregate.Status()
	return nil
}

func (r *memoryOrderRepo) UpdateConditional(
	_ context.Context, aggregate *order.Order, expectedStatus order.Status,
) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	committed, ok := r.store.statuses[aggregate.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}
	if committed != expectedStatus {
		return errs.NewConcurrentModificationError("order", aggregate.ID())
	}
	r.store.orders[aggregate.ID()] = aggregate
	r.store.statuses[aggregate.ID()] = aggregate.Status()
	return nil
}

func (r *memoryOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	aggregate, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return aggregate, nil
}

func (r *memoryOrderRepo) GetByDeposit(_ context.Context, depositID kernel.UUID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, aggregate := range r.store.orders {
		if aggregate.Deposit() != nil && aggregate.Deposit().IsEqual(depositID) {
			return aggregate, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("depositId", depositID)
}

func (r *memoryOrderRepo) GetAllBySeller(_ context.Context, sellerID kernel.UUID) ([]*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*order.Order
	for _, aggregate := range r.store.orders {
		if aggregate.SellerID().IsEqual(sellerID) {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

type memorySellerRepo struct {
	store *memoryStore
}

func (r *memorySellerRepo) Add(_ context.Context, aggregate *seller.Seller) error {
	r.store.putSeller(aggregate)
	return nil
}

func (r *memorySellerRepo) Update(_ context.Context, aggregate *seller.Seller) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.sellers[aggregate.ID()]; !ok {
		return errs.NewObjectNotFoundError("sellerId", aggregate.ID())
	}
	r.store.sellers[aggregate.ID()] = aggregate
	return nil
}

func (r *memorySellerRepo) Get(_ context.Context, id kernel.UUID) (*seller.Seller, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	aggregate, ok := r.store.sellers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("sellerId", id)
	}
	return aggregate, nil
}

func (r *memorySellerRepo) GetAllExpired(_ context.Context, before time.Time) ([]*seller.Seller, error) {
	return nil, nil
}

type memoryAttemptRepo struct {
	store *memoryStore
}

func (r *memoryAttemptRepo) Add(_ context.Context, aggregate *payment.Attempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.attempts[aggregate.DepositID()] = aggregate
	return nil
}

func (r *memoryAttemptRepo) Update(_ context.Context, aggregate *payment.Attempt) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.attempts[aggregate.DepositID()]; !ok {
		return errs.NewObjectNotFoundError("depositId", aggregate.DepositID())
	}
	r.store.attempts[aggregate.DepositID()] = aggregate
	return nil
}

func (r *memoryAttemptRepo) Get(_ context.Context, depositID kernel.UUID) (*payment.Attempt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	aggregate, ok := r.store.attempts[depositID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("depositId", depositID)
	}
	return aggregate, nil
}

func (r *memoryAttemptRepo) GetAllStale(_ context.Context, before time.Time) ([]*payment.Attempt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []*payment.Attempt
	for _, aggregate := range r.store.attempts {
		if aggregate.Status() == payment.StatusPending && aggregate.StartedAt().Before(before) {
			result = append(result, aggregate)
		}
	}
	return result, nil
}

type memoryClaimRepo struct {
	store *memoryStore
}

func (r *memoryClaimRepo) Add(_ context.Context, claim *payment.ManualClaim) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.claims[claim.DepositID()] = claim
	return nil
}

func (r *memoryClaimRepo) GetByDeposit(_ context.Context, depositID kernel.UUID) (*payment.ManualClaim, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	claim, ok := r.store.claims[depositID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("depositId", depositID)
	}
	return claim, nil
}

type unusedDeliveryRepo struct{}

func (unusedDeliveryRepo) Add(_ context.Context, _ *delivery.Delivery) error    { return nil }
func (unusedDeliveryRepo) Update(_ context.Context, _ *delivery.Delivery) error { return nil }
func (unusedDeliveryRepo) UpdateConditional(_ context.Context, _ *delivery.Delivery, _ delivery.Status) error {
	return nil
}
func (unusedDeliveryRepo) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return nil, errs.NewObjectNotFoundError("deliveryId", id)
}
func (unusedDeliveryRepo) GetByOrder(_ context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	return nil, errs.NewObjectNotFoundError("orderId", orderID)
}
func (unusedDeliveryRepo) GetAllByDriver(_ context.Context, _ kernel.UUID) ([]*delivery.Delivery, error) {
	return nil, nil
}

type unusedDriverRepo struct{}

func (unusedDriverRepo) Add(_ context.Context, _ *driver.Driver) error    { return nil }
func (unusedDriverRepo) Update(_ context.Context, _ *driver.Driver) error { return nil }
func (unusedDriverRepo) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	return nil, errs.NewObjectNotFoundError("driverId", id)
}
func (unusedDriverRepo) GetAll(_ context.Context) ([]*driver.Driver, error) { return nil, nil }

// stubGateway scripts the provider's answers per status check.
type stubGateway struct {
	mu       sync.Mutex
	initErr  error
	statusFn func(check int) (ports.DepositStatus, error)
	checks   int
}

func (g *stubGateway) InitiateDeposit(
	_ context.Context, _ kernel.UUID, _ kernel.Money, _ string, _ string,
) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.initErr
}

func (g *stubGateway) CheckPayment(_ context.Context, _ kernel.UUID) (ports.DepositStatus, error) {
	g.mu.Lock()
	g.checks++
	check := g.checks
	fn := g.statusFn
	g.mu.Unlock()
	return fn(check)
}

// recordingPublisher captures the progress stages published per deposit.
type recordingPublisher struct {
	mu     sync.Mutex
	stages map[kernel.UUID][]string
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{stages: make(map[kernel.UUID][]string)}
}

func (p *recordingPublisher) PublishOrderStatusChanged(
	_ context.Context, _ kernel.UUID, _, _ order.Status,
) error {
	return nil
}

func (p *recordingPublisher) PublishPaymentProgress(
	_ context.Context, depositID kernel.UUID, stage string,
) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages[depositID] = append(p.stages[depositID], stage)
	return nil
}

func (p *recordingPublisher) stagesFor(depositID kernel.UUID) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.stages[depositID]...)
}
