package sellerrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/seller"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSellerRepository implements SellerRepository using GORM.
type GormSellerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSellerRepository creates a new GORM seller repository.
func NewGormSellerRepository(db *gorm.DB, tracker aggregateTracker) *GormSellerRepository {
	return &GormSellerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a newly registered seller to the database.
func (r *GormSellerRepository) Add(ctx context.Context, aggregate *seller.Seller) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing seller to the database.
// verified_until is written explicitly so clearing a verification persists
// the NULL instead of being skipped as a zero value.
func (r *GormSellerRepository) Update(ctx context.Context, aggregate *seller.Seller) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&SellerDTO{}).
		Where("id = ?", dto.ID).
		Select("Name", "Phone", "StoreLatitude", "StoreLongitude", "VerifiedUntil").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a seller by ID.
func (r *GormSellerRepository) Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SellerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("seller", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllExpired retrieves sellers whose verification window ended before the
// given instant.
func (r *GormSellerRepository) GetAllExpired(
	ctx context.Context, before time.Time,
) ([]*seller.Seller, error) {
	var dtos []SellerDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "verified_until IS NOT NULL AND verified_until < ?", before).Error
	if err != nil {
		return nil, err
	}

	sellers := make([]*seller.Seller, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}

	return sellers, nil
}
