// Package driver provides the Driver reference entity for the fulfillment engine.
//
// The driver's own client is the sole writer of live coordinates and
// availability; this core only reads driver records and re-validates
// availability at assignment time. Staleness up to the location update
// interval is tolerated by design.
package driver

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructors")

// Driver represents a platform courier able to perform delivery legs.
// It is a read-mostly reference entity: eligibility is recomputed on every
// assignment attempt rather than cached.
type Driver struct {
	// id uniquely identifies the driver
	id kernel.UUID
	// name is the human-readable name of the driver
	name string
	// phone is the driver's mobile-money phone number
	phone string
	// location is the last known position of the driver
	location kernel.GeoPoint
	// available reports whether the driver is accepting delivery legs
	available bool
	// guard ensures the driver was properly constructed
	guard guard.ConstructorGuard
}

// NewDriver creates a new Driver with the specified parameters.
//
// Parameters:
//   - id: Unique identifier (must be valid UUID)
//   - name: Human-readable name (must be non-empty)
//   - phone: Mobile-money phone number (must be non-empty)
//   - location: Last known position (must be valid)
//   - available: Whether the driver is accepting delivery legs
//
// Returns:
//   - *Driver: A fully initialized driver
//   - error: Validation error if any parameter is invalid
func NewDriver(id kernel.UUID, name, phone string, location kernel.GeoPoint, available bool) (*Driver, error) {
	d := &Driver{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setPhone(phone),
		d.setLocation(location),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a Driver from persistent storage.
// Present for symmetry with the other aggregates; drivers carry no
// derived state beyond their stored fields.
func RestoreDriver(id kernel.UUID, name, phone string, location kernel.GeoPoint, available bool) (*Driver, error) {
	return NewDriver(id, name, phone, location, available)
}

// Validate ensures the Driver instance was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

// ID returns the driver's unique identifier.
func (d *Driver) ID() kernel.UUID {
	return d.id
}

// Name returns the driver's name.
func (d *Driver) Name() string {
	return d.name
}

// Phone returns the driver's phone number.
func (d *Driver) Phone() string {
	return d.phone
}

// Location returns the driver's last known position.
func (d *Driver) Location() kernel.GeoPoint {
	return d.location
}

// IsAvailable reports whether the driver is accepting delivery legs.
func (d *Driver) IsAvailable() bool {
	return d.available
}

// RefreshLocation overrides the stored position with a fresher live reading.
// Used when the live location feed has a more recent point than the record store.
func (d *Driver) RefreshLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}

// setID validates and sets the driver's unique identifier.
// This is a private method used only during construction.
func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setName validates and sets the driver's name.
// This is a private method used only during construction.
func (d *Driver) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}

// setPhone validates and sets the driver's phone number.
// This is a private method used only during construction.
func (d *Driver) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	d.phone = phone
	return nil
}

// setLocation validates and sets the driver's position.
// This is a private method used only during construction.
func (d *Driver) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = location
	return nil
}
