package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DriverRepository defines the persistence contract for driver records.
// The driver roster is written by registration flows; position and
// availability are refreshed from the live location feed before matching.
type DriverRepository interface {
	// Add persists a newly registered driver.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// Get retrieves a driver by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAll retrieves the full driver roster. Eligibility for an order is
	// recomputed per request from the live feed, so no availability filtering
	// happens at this level.
	GetAll(ctx context.Context) ([]*driver.Driver, error)
}
