package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	sellerVerificationExpiryJob *SellerVerificationExpiryJob
	staleDepositJob             *StaleDepositJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(uowFactory ports.UnitOfWorkFactory, logger *slog.Logger) *JobManager {
	return &JobManager{
		sellerVerificationExpiryJob: NewSellerVerificationExpiryJob(uowFactory, logger),
		staleDepositJob:             NewStaleDepositJob(uowFactory, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.sellerVerificationExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start seller verification expiry job: %w", err)
	}

	if err := jm.staleDepositJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.sellerVerificationExpiryJob.Stop()
		return fmt.Errorf("failed to start stale deposit job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleDepositJob.Stop()
	jm.sellerVerificationExpiryJob.Stop()
}
