package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/payment"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// staleDepositCutoff is how long a PENDING attempt may sit before the sweep
// times it out. Safely past the longest live confirmation window, so the sweep
// only ever touches attempts whose reconciler died with the process.
const staleDepositCutoff = 5 * time.Minute

// StaleDepositJob times out payment attempts left pending by a crashed or
// restarted process. Runs every minute.
type StaleDepositJob struct {
	uowFactory ports.UnitOfWorkFactory
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewStaleDepositJob creates the stale-deposit sweep.
func NewStaleDepositJob(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *StaleDepositJob {
	return &StaleDepositJob{
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "stale_deposit_job"),
	}
}

// Start begins the stale-deposit sweep, running at the top of each minute.
func (j *StaleDepositJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		if err := j.sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stale deposit sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale deposit job started (running every minute)")
	return nil
}

// Stop stops the stale-deposit sweep.
func (j *StaleDepositJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale deposit job stopped")
}

func (j *StaleDepositJob) sweep(ctx context.Context) error {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.PaymentAttemptRepository()
	stale, err := repo.GetAllStale(ctx, time.Now().UTC().Add(-staleDepositCutoff))
	if err != nil {
		return err
	}

	for _, attempt := range stale {
		if err := attempt.Resolve(payment.StatusTimeout); err != nil {
			j.logger.ErrorContext(ctx, "Failed to time out stale attempt",
				"depositId", attempt.DepositID(), "error", err)
			continue
		}
		if err := repo.Update(ctx, attempt); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	if len(stale) > 0 {
		j.logger.InfoContext(ctx, "Timed out stale payment attempts", "count", len(stale))
	}
	return nil
}
