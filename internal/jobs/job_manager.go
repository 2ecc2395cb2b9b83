package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderAssignmentJob *OrderAssignmentJob
	courierMovementJob *CourierMovementJob
	outboxJob          *OutboxJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers and the outbox processor as dependencies to wire up the job execution.
func NewJobManager(
	assignOrdersHandler assignOrdersHandler,
	moveCouriersHandler moveCouriersHandler,
	processor outboxProcessor,
	metrics JobMetrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderAssignmentJob: NewOrderAssignmentJob(assignOrdersHandler, metrics, logger),
		courierMovementJob: NewCourierMovementJob(moveCouriersHandler, metrics, logger),
		outboxJob:          NewOutboxJob(processor, metrics, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start; jobs already started are stopped.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.orderAssignmentJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to start order assignment job: %w", err)
	}

	if err := jm.courierMovementJob.Start(ctx); err != nil {
		jm.orderAssignmentJob.Stop()
		return fmt.Errorf("failed to start courier movement job: %w", err)
	}

	if err := jm.outboxJob.Start(ctx); err != nil {
		jm.courierMovementJob.Stop()
		jm.orderAssignmentJob.Stop()
		return fmt.Errorf("failed to start outbox job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.outboxJob.Stop()
	jm.courierMovementJob.Stop()
	jm.orderAssignmentJob.Stop()
}
