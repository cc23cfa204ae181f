// Package sellerrepo provides data transfer objects and mapping functions
// for seller persistence.
package sellerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/seller"

	"github.com/google/uuid"
)

// SellerDTO represents the database structure for persisting seller records.
// A NULL verified_until means the seller is not verified.
type SellerDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"type:varchar(255);not null"`
	Phone          string    `gorm:"type:varchar(32);not null"`
	StoreLatitude  float64   `gorm:"not null"`
	StoreLongitude float64   `gorm:"not null"`
	VerifiedUntil  *time.Time `gorm:"index"`
}

// TableName specifies the database table name for seller entities.
func (SellerDTO) TableName() string {
	return "sellers"
}

// fromDomain converts a seller domain record to its database representation.
func fromDomain(record *seller.Seller) SellerDTO {
	return SellerDTO{
		ID:             record.ID().Bytes(),
		Name:           record.Name(),
		Phone:          record.Phone(),
		StoreLatitude:  record.Store().Latitude(),
		StoreLongitude: record.Store().Longitude(),
		VerifiedUntil:  record.VerifiedUntil(),
	}
}

// toDomain converts a database DTO to a seller domain record.
func toDomain(dto SellerDTO) (*seller.Seller, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	store, err := kernel.NewGeoPoint(dto.StoreLatitude, dto.StoreLongitude)
	if err != nil {
		return nil, err
	}

	return seller.RestoreSeller(id, dto.Name, dto.Phone, store, dto.VerifiedUntil)
}
