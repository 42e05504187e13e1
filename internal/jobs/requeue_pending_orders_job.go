package jobs

import (
	"context"
	"log/slog"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RequeueHandler republishes stale Pending orders.
type RequeueHandler interface {
	Handle(ctx context.Context, cmd commands.RequeuePendingOrdersCommand) (int, error)
}

// RequeuePendingOrdersJob periodically gives orders that found no courier another chance.
type RequeuePendingOrdersJob struct {
	handler  RequeueHandler
	cmd      commands.RequeuePendingOrdersCommand
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewRequeuePendingOrdersJob creates the job. schedule is a six-field cron
// expression or a descriptor such as "@every 30s".
func NewRequeuePendingOrdersJob(
	handler RequeueHandler,
	cmd commands.RequeuePendingOrdersCommand,
	schedule string,
	logger *slog.Logger,
) *RequeuePendingOrdersJob {
	return &RequeuePendingOrdersJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		timeout:  defaultRunTimeout,
		cron:     newCron(),
		logger:   logger.With("component", "requeue_pending_orders_job"),
	}
}

// Start schedules the job.
func (j *RequeuePendingOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Requeue job started", "schedule", j.schedule)
	return nil
}

// Run performs one pass.
func (j *RequeuePendingOrdersJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	published, err := j.handler.Handle(ctx, j.cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Requeue job failed", "published", published, "error", err)
	}
}

// Stop waits for a running pass to finish.
func (j *RequeuePendingOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Requeue job stopped")
}
