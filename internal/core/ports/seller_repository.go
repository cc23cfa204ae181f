package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/seller"
)

// SellerRepository defines the persistence contract for seller records.
type SellerRepository interface {
	// Add persists a newly registered seller.
	Add(ctx context.Context, aggregate *seller.Seller) error

	// Update persists changes to an existing seller.
	Update(ctx context.Context, aggregate *seller.Seller) error

	// Get retrieves a seller by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*seller.Seller, error)

	// GetAllExpired retrieves sellers whose verification window ended before
	// the given instant. Used by the expiry sweep job.
	GetAllExpired(ctx context.Context, before time.Time) ([]*seller.Seller, error)
}
