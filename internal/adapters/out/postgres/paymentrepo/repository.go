package paymentrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPaymentAttemptRepository implements PaymentAttemptRepository using GORM.
type GormPaymentAttemptRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormPaymentAttemptRepository creates a new GORM payment attempt repository.
func NewGormPaymentAttemptRepository(
	db *gorm.DB, tracker aggregateTracker,
) *GormPaymentAttemptRepository {
	return &GormPaymentAttemptRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a freshly initiated payment attempt to the database.
func (r *GormPaymentAttemptRepository) Add(ctx context.Context, aggregate *payment.Attempt) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := attemptFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.DepositID(), aggregate)
	return nil
}

// Update saves an existing payment attempt to the database.
func (r *GormPaymentAttemptRepository) Update(ctx context.Context, aggregate *payment.Attempt) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := attemptFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&AttemptDTO{}).
		Where("deposit_id = ?", dto.DepositID).
		Select("Status", "Polls").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.DepositID(), aggregate)
	return nil
}

// Get retrieves a payment attempt by deposit ID.
func (r *GormPaymentAttemptRepository) Get(
	ctx context.Context, depositID kernel.UUID,
) (*payment.Attempt, error) {
	if err := depositID.Validate(); err != nil {
		return nil, err
	}

	var dto AttemptDTO
	err := r.db.WithContext(ctx).First(&dto, "deposit_id = ?", depositID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("depositId", depositID.String())
		}
		return nil, err
	}

	return attemptToDomain(dto)
}

// GetAllStale retrieves attempts still pending past the given instant. These
// are deposits whose reconciliation loop died without resolving them.
func (r *GormPaymentAttemptRepository) GetAllStale(
	ctx context.Context, before time.Time,
) ([]*payment.Attempt, error) {
	var dtos []AttemptDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "status = ? AND started_at < ?", payment.StatusPending.String(), before).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*payment.Attempt, 0, len(dtos))
	for _, dto := range dtos {
		a, err := attemptToDomain(dto)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	return attempts, nil
}

// GormManualClaimRepository implements ManualClaimRepository using GORM.
type GormManualClaimRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormManualClaimRepository creates a new GORM manual claim repository.
func NewGormManualClaimRepository(
	db *gorm.DB, tracker aggregateTracker,
) *GormManualClaimRepository {
	return &GormManualClaimRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a manual-confirmation claim to the database.
func (r *GormManualClaimRepository) Add(ctx context.Context, record *payment.ManualClaim) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := claimFromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.DepositID(), record)
	return nil
}

// GetByDeposit retrieves the claim recorded for a deposit.
func (r *GormManualClaimRepository) GetByDeposit(
	ctx context.Context, depositID kernel.UUID,
) (*payment.ManualClaim, error) {
	if err := depositID.Validate(); err != nil {
		return nil, err
	}

	var dto ManualClaimDTO
	err := r.db.WithContext(ctx).First(&dto, "deposit_id = ?", depositID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("depositId", depositID.String())
		}
		return nil, err
	}

	return claimToDomain(dto)
}
