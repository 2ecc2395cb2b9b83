package jobs

import (
	"context"
	"log/slog"

	"deliverydispatch/internal/core/application/usecases/commands"
)

const (
	courierMovementJobName = "courier_movement"
	courierMovementSpec    = "*/2 * * * * *"
)

type moveCouriersHandler interface {
	Handle(ctx context.Context, cmd commands.MoveCouriersCommand) (bool, error)
}

// CourierMovementJob manages the scheduled movement of couriers.
// Runs every two seconds to update courier positions and complete deliveries.
type CourierMovementJob struct {
	*scheduledJob
}

// NewCourierMovementJob creates a new job for moving couriers.
func NewCourierMovementJob(handler moveCouriersHandler, metrics JobMetrics, logger *slog.Logger) *CourierMovementJob {
	job := &CourierMovementJob{}
	job.scheduledJob = newScheduledJob(courierMovementJobName, courierMovementSpec, func(ctx context.Context) error {
		_, err := handler.Handle(ctx, commands.NewMoveCouriersCommand())
		return err
	}, metrics, logger)
	return job
}
