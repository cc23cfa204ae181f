package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery records.
type DeliveryRepository interface {
	// Add persists a new delivery record.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery record unconditionally.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// UpdateConditional persists changes only if the stored record is still in
	// expectedStatus. Returns ConcurrentModificationError when another writer
	// moved the record first.
	UpdateConditional(ctx context.Context, aggregate *delivery.Delivery, expectedStatus delivery.Status) error

	// Get retrieves a delivery by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByOrder retrieves the delivery record created for an order.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetAllByDriver retrieves every delivery assigned to a driver, newest first.
	GetAllByDriver(ctx context.Context, driverID kernel.UUID) ([]*delivery.Delivery, error)
}
