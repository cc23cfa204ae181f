package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// SellerVerificationExpiryJob clears the verified badge from sellers whose
// subscription window ended. Runs hourly; the badge is also checked against
// its expiry timestamp on read, so the sweep only keeps storage tidy.
type SellerVerificationExpiryJob struct {
	uowFactory ports.UnitOfWorkFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewSellerVerificationExpiryJob creates the hourly verification expiry sweep.
func NewSellerVerificationExpiryJob(
	uowFactory ports.UnitOfWorkFactory, logger *slog.Logger,
) *SellerVerificationExpiryJob {
	return &SellerVerificationExpiryJob{
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "seller_verification_expiry_job"),
	}
}

// Start begins the verification expiry sweep, running at the top of each hour.
func (j *SellerVerificationExpiryJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		ctx := context.Background()
		if err := j.sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Seller verification expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Seller verification expiry job started (running hourly)")
	return nil
}

// Stop stops the verification expiry sweep.
func (j *SellerVerificationExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Seller verification expiry job stopped")
}

func (j *SellerVerificationExpiryJob) sweep(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SellerRepository()
	expired, err := repo.GetAllExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, aggregate := range expired {
		aggregate.ClearVerification()
		if err := repo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if len(expired) > 0 {
		j.logger.InfoContext(ctx, "Cleared expired seller verifications", "count", len(expired))
	}
	return nil
}
