// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PendingOrderRetryJob - replays every pending order through placement,
// obs orders before obv orders, once a minute by default
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	retryJob := jobs.NewPendingOrderRetryJob(retryHandler, cfg.RetrySchedule, cfg.AssignmentTimeout*10, logger)
//	jobManager := jobs.NewJobManager(retryJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("failed to start jobs", zap.Error(err))
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The schedule uses the seconds-enabled cron syntax, "0 * * * * *" by default
// (RETRY_SCHEDULE). A pass still running when the next one is due causes the
// next one to be skipped, so two passes never replay the same order at once.
//
// # Error Handling
//
// - An empty pending set is logged at debug level and is not an error
// - Per-order failures are counted in the retry report, not returned
// - A panic inside a pass is recovered and logged by the scheduler
// - Failed job starts will stop any already running jobs
package jobs
