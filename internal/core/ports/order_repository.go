// Package ports defines repository and gateway interfaces for the fulfillment domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and conditionally updating order
// entities based on their status.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate unconditionally.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateConditional persists changes only if the stored order is still in
	// expectedStatus. This compare-and-swap on status is the sole concurrency
	// control for the order lifecycle: when another writer already moved the
	// order, the write is rejected with a ConcurrentModificationError and the
	// caller re-reads before retrying.
	//
	// Example:
	//   err := repo.UpdateConditional(ctx, o, order.PendingDeliveryChoice)
	//   if errors.Is(err, errs.ErrConcurrentModification) {
	//       // Someone else claimed the order first; re-read and decide again.
	//   }
	UpdateConditional(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its current status and delivery state.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByDeposit retrieves the order a deposit was attached to.
	// Used by the payment reconciler to advance the order once the deposit resolves.
	GetByDeposit(ctx context.Context, depositID kernel.UUID) (*order.Order, error)

	// GetAllBySeller retrieves every order belonging to a seller, newest first.
	GetAllBySeller(ctx context.Context, sellerID kernel.UUID) ([]*order.Order, error)
}
