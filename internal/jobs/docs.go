// Package jobs provides scheduled background tasks for the tracking service.
//
// Jobs are cron based (github.com/robfig/cron/v3, six field schedules with
// seconds) and log through log/slog with a "component" attribute.
//
// # Available Jobs
//
// 1. StatusSnapshotJob - counts packages per current status and feeds the
// tracking_packages_by_status gauge
//
// # Usage
//
//	snapshot := jobs.NewStatusSnapshotJob(countHandler, metrics, "*/30 * * * * *", logger)
//	jobManager := jobs.NewJobManager(snapshot)
//
//	if err := jobManager.StartAll(); err != nil {
//		return fmt.Errorf("start jobs: %w", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the next tick tries again. A job that fails to
// start stops the jobs started before it.
package jobs
