package jobs

import (
	"context"
	"log/slog"
)

const (
	outboxJobName = "outbox"
	outboxSpec    = "*/3 * * * * *"
)

type outboxProcessor interface {
	Process(ctx context.Context) (int, error)
}

// OutboxJob delivers captured domain events to their handlers every three seconds.
type OutboxJob struct {
	*scheduledJob
}

func NewOutboxJob(processor outboxProcessor, metrics JobMetrics, logger *slog.Logger) *OutboxJob {
	job := &OutboxJob{}
	job.scheduledJob = newScheduledJob(outboxJobName, outboxSpec, func(ctx context.Context) error {
		delivered, err := processor.Process(ctx)
		if err != nil {
			return err
		}
		if delivered > 0 {
			job.logger.DebugContext(ctx, "Outbox messages delivered", "count", delivered)
		}
		return nil
	}, metrics, logger)
	return job
}
