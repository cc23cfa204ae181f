package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"
)

// PaymentAttemptRepository defines the persistence contract for payment
// attempts tracked by the reconciliation engine.
type PaymentAttemptRepository interface {
	// Add persists a freshly initiated attempt.
	Add(ctx context.Context, aggregate *payment.Attempt) error

	// Update persists poll counts and resolutions.
	Update(ctx context.Context, aggregate *payment.Attempt) error

	// Get retrieves an attempt by its deposit identifier.
	Get(ctx context.Context, depositID kernel.UUID) (*payment.Attempt, error)

	// GetAllStale retrieves PENDING attempts started before the given instant.
	// Used by the stale-deposit sweep to time out attempts whose reconciler
	// died with the process.
	GetAllStale(ctx context.Context, before time.Time) ([]*payment.Attempt, error)
}

// ManualClaimRepository defines the persistence contract for
// manual-confirmation claims awaiting human review.
type ManualClaimRepository interface {
	// Add records a user-pasted confirmation claim.
	Add(ctx context.Context, claim *payment.ManualClaim) error

	// GetByDeposit retrieves the claim recorded for a deposit, if any.
	GetByDeposit(ctx context.Context, depositID kernel.UUID) (*payment.ManualClaim, error)
}
