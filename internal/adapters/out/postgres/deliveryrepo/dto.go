// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence.
package deliveryrepo

import (
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery records.
type DeliveryDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	SellerID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID         *uuid.UUID `gorm:"type:uuid;index"`
	PickupLatitude   float64    `gorm:"not null"`
	PickupLongitude  float64    `gorm:"not null"`
	DropoffLatitude  float64    `gorm:"not null"`
	DropoffLongitude float64    `gorm:"not null"`
	FeeMinorUnits    int64      `gorm:"not null"`
	Currency         string     `gorm:"type:varchar(3);not null"`
	DepositID        *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"type:varchar(32);not null;index"`
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// fromDomain converts a delivery domain record to its database representation.
func fromDomain(record *delivery.Delivery) DeliveryDTO {
	var driverID *uuid.UUID
	if id := record.Driver(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	var depositID *uuid.UUID
	if id := record.Deposit(); id != nil {
		raw := id.Bytes()
		depositID = &raw
	}

	return DeliveryDTO{
		ID:               record.ID().Bytes(),
		OrderID:          record.OrderID().Bytes(),
		SellerID:         record.SellerID().Bytes(),
		DriverID:         driverID,
		PickupLatitude:   record.Pickup().Latitude(),
		PickupLongitude:  record.Pickup().Longitude(),
		DropoffLatitude:  record.Dropoff().Latitude(),
		DropoffLongitude: record.Dropoff().Longitude(),
		FeeMinorUnits:    record.Fee().MinorUnits(),
		Currency:         record.Fee().Currency(),
		DepositID:        depositID,
		Status:           record.Status().String(),
	}
}

// toDomain converts a database DTO to a delivery domain record.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		parsed, idErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if idErr != nil {
			return nil, idErr
		}
		driverID = &parsed
	}

	var depositID *kernel.UUID
	if dto.DepositID != nil {
		parsed, idErr := kernel.UUIDFromBytes((*dto.DepositID)[:])
		if idErr != nil {
			return nil, idErr
		}
		depositID = &parsed
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLatitude, dto.PickupLongitude)
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.DropoffLatitude, dto.DropoffLongitude)
	if err != nil {
		return nil, err
	}

	fee, err := kernel.NewMoney(dto.FeeMinorUnits, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := delivery.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(id, orderID, sellerID, pickup, dropoff, fee, driverID, depositID, status)
}
