// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status and delivery method are stored as their snake_case string forms so
// the rows stay readable from other tooling; restoring fails closed on any
// value the domain does not recognize.
type OrderDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SellerID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerName      string     `gorm:"type:varchar(255);not null"`
	CustomerPhone     string     `gorm:"type:varchar(32);not null"`
	Address           string     `gorm:"type:varchar(512);not null"`
	DropoffLatitude   float64    `gorm:"not null"`
	DropoffLongitude  float64    `gorm:"not null"`
	TotalMinorUnits   int64      `gorm:"not null"`
	Currency          string     `gorm:"type:varchar(3);not null"`
	Status            string     `gorm:"type:varchar(32);not null;index"`
	DeliveryMethod    string     `gorm:"type:varchar(32);not null"`
	DriverID          *uuid.UUID `gorm:"type:uuid;index"`
	DepositID         *uuid.UUID `gorm:"type:uuid;index"`
	ProofImageRef     *string    `gorm:"type:varchar(512)"`
	ProofSignatureRef *string    `gorm:"type:varchar(512)"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`
	DeliveredAt       *time.Time
	Items             []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line in the database.
// Items are written once with the order and never modified afterwards.
type ItemDTO struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement"`
	OrderID             uuid.UUID `gorm:"type:uuid;not null;index"`
	Name                string    `gorm:"type:varchar(255);not null"`
	Quantity            int       `gorm:"type:int;not null"`
	UnitPriceMinorUnits int64     `gorm:"not null"`
	Currency            string    `gorm:"type:varchar(3);not null"`
}

// TableName specifies the database table name for order line entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:             orderID,
			Name:                item.Name(),
			Quantity:            item.Quantity(),
			UnitPriceMinorUnits: item.UnitPrice().MinorUnits(),
			Currency:            item.UnitPrice().Currency(),
		})
	}

	return OrderDTO{
		ID:                orderID,
		SellerID:          aggregate.SellerID().Bytes(),
		CustomerName:      aggregate.CustomerName(),
		CustomerPhone:     aggregate.CustomerPhone(),
		Address:           aggregate.Address(),
		DropoffLatitude:   aggregate.Dropoff().Latitude(),
		DropoffLongitude:  aggregate.Dropoff().Longitude(),
		TotalMinorUnits:   aggregate.Total().MinorUnits(),
		Currency:          aggregate.Total().Currency(),
		Status:            aggregate.Status().String(),
		DeliveryMethod:    aggregate.DeliveryMethod().String(),
		DriverID:          optionalUUID(aggregate.Driver()),
		DepositID:         optionalUUID(aggregate.Deposit()),
		ProofImageRef:     aggregate.ProofImageRef(),
		ProofSignatureRef: aggregate.ProofSignatureRef(),
		CreatedAt:         aggregate.CreatedAt(),
		UpdatedAt:         aggregate.UpdatedAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
		Items:             items,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder, which re-validates
// every cross-field invariant.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := optionalKernelUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}

	depositID, err := optionalKernelUUID(dto.DepositID)
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.DropoffLatitude, dto.DropoffLongitude)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalMinorUnits, dto.Currency)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	method, err := order.DeliveryMethodFromString(dto.DeliveryMethod)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		unitPrice, priceErr := kernel.NewMoney(itemDto.UnitPriceMinorUnits, itemDto.Currency)
		if priceErr != nil {
			return nil, priceErr
		}

		item, itemErr := order.NewItem(itemDto.Name, itemDto.Quantity, unitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, sellerID,
		dto.CustomerName, dto.CustomerPhone, dto.Address,
		dropoff, total, items,
		status, method,
		driverID, depositID,
		dto.ProofImageRef, dto.ProofSignatureRef,
		dto.CreatedAt, dto.UpdatedAt, dto.DeliveredAt,
	)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}

	raw := id.Bytes()
	return &raw
}

func optionalKernelUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}

	parsed, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
