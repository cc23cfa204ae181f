package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	// MinLatitude is the minimum valid latitude in degrees.
	MinLatitude = -90.0
	// MaxLatitude is the maximum valid latitude in degrees.
	MaxLatitude = 90.0
	// MinLongitude is the minimum valid longitude in degrees.
	MinLongitude = -180.0
	// MaxLongitude is the maximum valid longitude in degrees.
	MaxLongitude = 180.0

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
// GeoPoints must be created using the NewGeoPoint constructor to ensure validity.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a geographic position as a validated latitude/longitude pair
// in decimal degrees. GeoPoint is an immutable value object; the zero value is
// invalid and will fail validation - use the constructor to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(-4.325, 15.322)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(point) // Output: GeoPoint(-4.325000,15.322000)
type GeoPoint struct { //nolint:recvcheck //using for validation
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewGeoPoint creates a new GeoPoint with the specified coordinates.
// Latitude must be within [MinLatitude..MaxLatitude] and longitude within
// [MinLongitude..MaxLongitude]. Returns an error if either is out of bounds
// or not a finite number.
//
// Parameters:
//   - latitude: Degrees north of the equator (negative for south)
//   - longitude: Degrees east of the prime meridian (negative for west)
//
// Returns:
//   - GeoPoint: A valid geographic point
//   - error: Validation error if either coordinate is invalid
func NewGeoPoint(latitude, longitude float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLatitude(latitude), point.setLongitude(longitude)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks if the GeoPoint was properly constructed using the constructor.
// The zero value of GeoPoint is invalid and will fail this validation.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Latitude returns the latitude in decimal degrees.
func (p GeoPoint) Latitude() float64 {
	return p.latitude
}

// Longitude returns the longitude in decimal degrees.
func (p GeoPoint) Longitude() float64 {
	return p.longitude
}

// String returns a human-readable representation in the format
// "GeoPoint(latitude,longitude)". Implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.latitude, p.longitude)
}

// IsEqual compares two geographic points for exact coordinate equality.
// Both points must be properly constructed for the comparison to succeed.
//
// Returns:
//   - bool: true if both coordinates are equal
//   - error: Validation error if either point is improperly constructed
func (p GeoPoint) IsEqual(other GeoPoint) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.latitude == other.latitude && p.longitude == other.longitude, nil
}

// DistanceKm calculates the great-circle distance in kilometers between two
// points using the haversine formula. The distance is symmetric:
// a.DistanceKm(b) equals b.DistanceKm(a), and the distance from a point to
// itself is zero. Both points must be properly constructed.
//
// Example:
//
//	seller, _ := kernel.NewGeoPoint(-4.3250, 15.3222)
//	driver, _ := kernel.NewGeoPoint(-4.3410, 15.3135)
//	km, err := seller.DistanceKm(driver)
//	// km ≈ 2.0, err = nil
func (p GeoPoint) DistanceKm(other GeoPoint) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(p.latitude)
	lat2 := degreesToRadians(other.latitude)
	dLat := degreesToRadians(other.latitude - p.latitude)
	dLng := degreesToRadians(other.longitude - p.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// setLatitude sets the latitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers, enabling self-encapsulated validation during object construction.
func (p *GeoPoint) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < MinLatitude || latitude > MaxLatitude {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, MinLatitude, MaxLatitude)
	}

	p.latitude = latitude
	return nil
}

// setLongitude sets the longitude with validation.
// Note: We intentionally use a pointer receiver here while other methods use value
// receivers, enabling self-encapsulated validation during object construction.
func (p *GeoPoint) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < MinLongitude || longitude > MaxLongitude {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, MinLongitude, MaxLongitude)
	}

	p.longitude = longitude
	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
