package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCandidateDriversQueryHandler produces the ranked driver list for an order.
// Reads the roster and the seller's store location with direct SQL, overlays
// the live position feed, and ranks with the distance matcher. Drivers absent
// from the feed are skipped: no recent position means not available.
type GetCandidateDriversQueryHandler struct {
	db        *gorm.DB
	locations ports.DriverLocations
}

// NewGetCandidateDriversQueryHandler creates a handler for candidate retrieval.
// Requires a GORM database connection and the live driver location feed.
func NewGetCandidateDriversQueryHandler(
	db *gorm.DB, locations ports.DriverLocations,
) GetCandidateDriversQueryHandler {
	return GetCandidateDriversQueryHandler{db: db, locations: locations}
}

// Handle executes the query.
// The pickup point is the store of the seller owning the order. Returns
// services.ErrNoDriversInRange when nobody qualifies.
func (h GetCandidateDriversQueryHandler) Handle(
	ctx context.Context,
	query GetCandidateDriversQuery,
) ([]GetCandidateDriversQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pickup, err := h.pickupPoint(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	roster, err := h.roster(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := h.locations.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	live := h.overlay(roster, positions)

	candidates, err := services.NewDriverMatcher().Match(pickup, live, query.RadiusKm())
	if err != nil {
		return nil, err
	}

	responses := make([]GetCandidateDriversQueryResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, GetCandidateDriversQueryResponse{
			DriverID:   candidate.Driver.ID(),
			Name:       candidate.Driver.Name(),
			Phone:      candidate.Driver.Phone(),
			DistanceKm: candidate.DistanceKm,
		})
	}

	return responses, nil
}

// pickupPoint resolves the store location of the seller owning the order.
func (h GetCandidateDriversQueryHandler) pickupPoint(
	ctx context.Context, orderID kernel.UUID,
) (kernel.GeoPoint, error) {
	var latitude, longitude float64

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			s.store_latitude,
			s.store_longitude
		FROM orders o
		JOIN sellers s ON s.id = o.seller_id
		WHERE o.id = ?
	`, orderID.String()).Row()

	if err := row.Scan(&latitude, &longitude); err != nil {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundErrorWithCause("orderId", orderID, err)
	}

	return kernel.NewGeoPoint(latitude, longitude)
}

// roster loads the registered drivers.
func (h GetCandidateDriversQueryHandler) roster(ctx context.Context) ([]*driver.Driver, error) {
	drivers := make([]*driver.Driver, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			phone,
			latitude,
			longitude,
			available
		FROM drivers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                  uuid.UUID
			name, phone         string
			latitude, longitude float64
			available           bool
		)

		if err = rows.Scan(&id, &name, &phone, &latitude, &longitude, &available); err != nil {
			return nil, err
		}

		driverID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		location, locErr := kernel.NewGeoPoint(latitude, longitude)
		if locErr != nil {
			return nil, locErr
		}

		restored, restoreErr := driver.RestoreDriver(driverID, name, phone, location, available)
		if restoreErr != nil {
			return nil, restoreErr
		}
		drivers = append(drivers, restored)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}

// overlay replaces stored positions with live ones and keeps only drivers the
// feed currently knows about.
func (h GetCandidateDriversQueryHandler) overlay(
	roster []*driver.Driver, positions []ports.DriverPosition,
) []*driver.Driver {
	byID := make(map[string]ports.DriverPosition, len(positions))
	for _, position := range positions {
		byID[position.DriverID.String()] = position
	}

	live := make([]*driver.Driver, 0, len(roster))
	for _, d := range roster {
		position, ok := byID[d.ID().String()]
		if !ok || !position.Available {
			continue
		}

		refreshed, err := driver.RestoreDriver(d.ID(), d.Name(), d.Phone(), position.Location, true)
		if err != nil {
			continue
		}
		live = append(live, refreshed)
	}

	return live
}
