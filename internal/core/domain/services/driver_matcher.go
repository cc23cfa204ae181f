package services

import (
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
)

// DefaultSearchRadiusKm is the search radius applied when the caller does not
// supply one.
const DefaultSearchRadiusKm = 5.0

// ErrNoDriversInRange is returned when no available driver is within the search
// radius of the pickup point. Callers surface this to the seller so they can
// retry later or fall back to delivering themselves.
var ErrNoDriversInRange = errors.New("no drivers in range")

// Candidate pairs a driver with its straight-line distance to the pickup point.
type Candidate struct {
	Driver     *driver.Driver
	DistanceKm float64
}

// DriverMatcher is a domain service responsible for producing the ranked list
// of drivers a seller may request for an order's courier leg.
//
// Key responsibilities:
//   - Filtering out unavailable drivers
//   - Filtering out drivers beyond the search radius
//   - Ranking the remainder by ascending distance to the pickup point
//
// Business rules:
//   - Availability and position come from the driver's live location feed;
//     the ranking is a snapshot and must be recomputed for every attempt
//   - Ties on distance break on driver id so the ordering is deterministic
//
// Example usage:
//
//	matcher := services.NewDriverMatcher()
//	candidates, err := matcher.Match(pickup, drivers, services.DefaultSearchRadiusKm)
//	if errors.Is(err, services.ErrNoDriversInRange) {
//	    // Nobody close enough right now
//	    return
//	}
type DriverMatcher struct{}

// NewDriverMatcher creates a new DriverMatcher instance.
//
// Returns:
//   - DriverMatcher: A new instance ready for matching operations
func NewDriverMatcher() DriverMatcher {
	return DriverMatcher{}
}

// Match ranks the available drivers within radiusKm of the pickup point by
// ascending distance.
//
// Parameters:
//   - pickup: The pickup point (the seller's store, must be valid)
//   - drivers: Snapshot of drivers to consider
//   - radiusKm: Search radius in kilometers; non-positive values fall back to
//     DefaultSearchRadiusKm
//
// Returns:
//   - []Candidate: Eligible drivers, nearest first
//   - error: ErrNoDriversInRange if nobody qualifies, or validation errors
func (m DriverMatcher) Match(
	pickup kernel.GeoPoint, drivers []*driver.Driver, radiusKm float64,
) ([]Candidate, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultSearchRadiusKm
	}

	candidates := make([]Candidate, 0, len(drivers))
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return nil, err
		}

		if !d.IsAvailable() {
			continue
		}

		distance, err := pickup.DistanceKm(d.Location())
		if err != nil {
			return nil, err
		}
		if distance > radiusKm {
			continue
		}

		candidates = append(candidates, Candidate{Driver: d, DistanceKm: distance})
	}

	if len(candidates) == 0 {
		return nil, ErrNoDriversInRange
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DistanceKm != candidates[j].DistanceKm {
			return candidates[i].DistanceKm < candidates[j].DistanceKm
		}
		return candidates[i].Driver.ID().String() < candidates[j].Driver.ID().String()
	})

	return candidates, nil
}
