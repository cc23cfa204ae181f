// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping the request path cannot do.
//
// # Available Jobs
//
// 1. SellerVerificationExpiryJob - Runs hourly to clear verified badges whose subscription window ended
// 2. StaleDepositJob - Runs every minute to time out payment attempts orphaned by a process restart
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with the unit-of-work factory
//	jobManager := jobs.NewJobManager(uowFactory, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Sweep failures are logged and retried on the next tick; a sweep never
//   crashes the process
// - Failed job starts will stop any already running jobs
package jobs
