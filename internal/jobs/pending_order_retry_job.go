package jobs

import (
	"context"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultRetrySchedule runs the retry pass at second zero of every minute.
const DefaultRetrySchedule = "0 * * * * *"

type retryHandler interface {
	Handle(ctx context.Context, cmd commands.RetryPendingOrdersCommand) ([]commands.RetryReport, error)
}

// PendingOrderRetryJob replays pending orders on a cron schedule. A pass that
// is still running when the next one is due makes the next one skip.
type PendingOrderRetryJob struct {
	handler  retryHandler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

// NewPendingOrderRetryJob creates the retry job. An empty schedule means
// DefaultRetrySchedule; a zero timeout lets a pass run until it ends.
func NewPendingOrderRetryJob(handler retryHandler, schedule string, timeout time.Duration, logger *zap.Logger) *PendingOrderRetryJob {
	if schedule == "" {
		schedule = DefaultRetrySchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "pending_order_retry_job"))
	cronLog := cronLogger{logger: logger.Sugar()}

	return &PendingOrderRetryJob{
		handler:  handler,
		schedule: schedule,
		timeout:  timeout,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		logger: logger,
	}
}

// Start registers the pass and starts the scheduler.
func (j *PendingOrderRetryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("pending order retry job started", zap.String("schedule", j.schedule))
	return nil
}

// Run performs one retry pass.
func (j *PendingOrderRetryJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	reports, err := j.handler.Handle(ctx, commands.NewRetryPendingOrdersCommand())
	if err != nil {
		j.logger.Error("pending order retry failed", zap.Error(err))
		return
	}

	for _, r := range reports {
		if r.Processed == 0 {
			j.logger.Debug("no pending orders", zap.Stringer("order_type", r.Type))
			continue
		}
		j.logger.Info("pending orders retried",
			zap.Stringer("order_type", r.Type),
			zap.Int("processed", r.Processed),
			zap.Int("assigned", r.Assigned),
			zap.Int("still_pending", r.StillPending),
			zap.Int("abandoned", r.Abandoned),
			zap.Int("failed", r.Failed))
	}
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *PendingOrderRetryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("pending order retry job stopped")
}

// cronLogger routes the scheduler's own logging to zap.
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
