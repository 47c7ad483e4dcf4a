package jobs

import (
	"context"
	"log/slog"
	"time"

	"tracking/internal/core/application/usecases/queries"
	"tracking/internal/core/domain/model/parcel"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultStatusSnapshotSchedule runs the snapshot every 30 seconds.
	DefaultStatusSnapshotSchedule = "*/30 * * * * *"

	statusSnapshotTimeout = 10 * time.Second
)

// StatusGauge receives the package count per status.
type StatusGauge interface {
	SetPackagesByStatus(counts map[parcel.Status]int64)
}

// StatusSnapshotJob periodically counts packages by current status and
// publishes the counts to a gauge.
type StatusSnapshotJob struct {
	handler  queries.CountPackagesByStatusQueryHandler
	gauge    StatusGauge
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewStatusSnapshotJob creates the job. An empty schedule means
// DefaultStatusSnapshotSchedule; schedules use the six field cron format.
func NewStatusSnapshotJob(
	handler queries.CountPackagesByStatusQueryHandler,
	gauge StatusGauge,
	schedule string,
	logger *slog.Logger,
) *StatusSnapshotJob {
	if schedule == "" {
		schedule = DefaultStatusSnapshotSchedule
	}
	return &StatusSnapshotJob{
		handler:  handler,
		gauge:    gauge,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "status_snapshot_job"),
	}
}

func (j *StatusSnapshotJob) Name() string {
	return "status snapshot"
}

// Start takes a first snapshot right away and then follows the schedule.
func (j *StatusSnapshotJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return err
	}

	j.run()
	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Status snapshot job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running snapshot to finish.
func (j *StatusSnapshotJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Status snapshot job stopped")
}

// RunOnce takes one snapshot.
func (j *StatusSnapshotJob) RunOnce(ctx context.Context) error {
	counts, err := j.handler.Handle(ctx, queries.NewCountPackagesByStatusQuery())
	if err != nil {
		return err
	}

	j.gauge.SetPackagesByStatus(counts)
	return nil
}

func (j *StatusSnapshotJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), statusSnapshotTimeout)
	defer cancel()

	if err := j.RunOnce(ctx); err != nil {
		j.logger.ErrorContext(ctx, "Status snapshot job failed", "error", err)
	}
}
