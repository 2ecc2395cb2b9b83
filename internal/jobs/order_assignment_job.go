package jobs

import (
	"context"
	"log/slog"

	"deliverydispatch/internal/core/application/usecases/commands"
)

const (
	orderAssignmentJobName = "order_assignment"
	orderAssignmentSpec    = "* * * * * *"
)

type assignOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.AssignOrdersCommand) (bool, error)
}

// OrderAssignmentJob manages the scheduled assignment of couriers to orders.
// Runs every second to match Created orders with Free couriers.
type OrderAssignmentJob struct {
	*scheduledJob
}

// NewOrderAssignmentJob creates a new job for assigning orders.
func NewOrderAssignmentJob(handler assignOrdersHandler, metrics JobMetrics, logger *slog.Logger) *OrderAssignmentJob {
	job := &OrderAssignmentJob{}
	job.scheduledJob = newScheduledJob(orderAssignmentJobName, orderAssignmentSpec, func(ctx context.Context) error {
		changed, err := handler.Handle(ctx, commands.NewAssignOrdersCommand())
		if err != nil {
			return err
		}
		if changed {
			job.logger.DebugContext(ctx, "Orders assigned")
		}
		return nil
	}, metrics, logger)
	return job
}
