package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// DriverPosition is one driver's latest reported position and availability.
type DriverPosition struct {
	DriverID  kernel.UUID
	Location  kernel.GeoPoint
	Available bool
}

// DriverLocations reads the live position feed written by the driver app.
// The core never writes to it; positions are overlaid on the roster right
// before matching so eligibility reflects the current moment.
type DriverLocations interface {
	// Get returns the latest position for one driver, or nil if the driver
	// has never reported.
	Get(ctx context.Context, driverID kernel.UUID) (*DriverPosition, error)

	// GetAll returns the latest position of every reporting driver.
	GetAll(ctx context.Context) ([]DriverPosition, error)
}
