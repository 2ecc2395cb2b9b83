package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "deliverydispatch/internal/jobs"

// JobMetrics records the outcome of every job run.
type JobMetrics interface {
	JobRun(job string, d time.Duration, err error)
}

type noopJobMetrics struct{}

func (noopJobMetrics) JobRun(string, time.Duration, error) {}

// scheduledJob runs one function on a cron schedule. Overlapping ticks are skipped.
type scheduledJob struct {
	name    string
	spec    string
	run     func(ctx context.Context) error
	cron    *cron.Cron
	logger  *slog.Logger
	metrics JobMetrics
	tracer  trace.Tracer

	cancel context.CancelFunc
}

func newScheduledJob(
	name string,
	spec string,
	run func(ctx context.Context) error,
	metrics JobMetrics,
	logger *slog.Logger,
) *scheduledJob {
	if metrics == nil {
		metrics = noopJobMetrics{}
	}
	logger = logger.With("component", name+"_job")

	return &scheduledJob{
		name: name,
		spec: spec,
		run:  run,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger:  logger,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
	}
}

// Start schedules the job. Runs get a context derived from ctx that Stop cancels.
func (j *scheduledJob) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	if _, err := j.cron.AddFunc(j.spec, func() { j.runOnce(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule %s job: %w", j.name, err)
	}

	j.cancel = cancel
	j.cron.Start()
	j.logger.InfoContext(ctx, "Job started", "schedule", j.spec)
	return nil
}

// Stop cancels the running job, if any, and waits for it to return.
func (j *scheduledJob) Stop() {
	stopped := j.cron.Stop()
	if j.cancel != nil {
		j.cancel()
	}
	<-stopped.Done()
	j.logger.InfoContext(context.Background(), "Job stopped")
}

func (j *scheduledJob) runOnce(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "job."+j.name)
	defer span.End()

	start := time.Now()
	err := j.run(ctx)
	j.metrics.JobRun(j.name, time.Since(start), err)

	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, context.Canceled) {
		j.logger.InfoContext(ctx, "Job run cancelled")
		return
	}
	j.logger.ErrorContext(ctx, "Job run failed", "error", err)
}

// cronLogger routes cron's own messages, such as skipped ticks, to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
