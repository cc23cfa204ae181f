// Package driverrepo provides data transfer objects and mapping functions
// for driver roster persistence. The stored position is the last one flushed
// from the live feed and may lag behind it; matching always overlays the feed.
package driverrepo

import (
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver records.
type DriverDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(32);not null"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	Available bool      `gorm:"not null"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// fromDomain converts a driver domain record to its database representation.
func fromDomain(record *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:        record.ID().Bytes(),
		Name:      record.Name(),
		Phone:     record.Phone(),
		Latitude:  record.Location().Latitude(),
		Longitude: record.Location().Longitude(),
		Available: record.IsAvailable(),
	}
}

// toDomain converts a database DTO to a driver domain record.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}

	return driver.RestoreDriver(id, dto.Name, dto.Phone, location, dto.Available)
}
