// Package jobs provides scheduled background tasks for the delivery system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to drive the periodic workflows of the delivery service.
//
// # Available Jobs
//
// 1. OrderAssignmentJob - Runs every second to pair Created orders with the closest Free couriers
// 2. CourierMovementJob - Runs every two seconds to move couriers toward their orders and complete deliveries
// 3. OutboxJob - Runs every three seconds to deliver captured domain events to their handlers
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(assignOrdersHandler, moveCouriersHandler, outboxProcessor, metrics, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down; waits for running ones
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Every job is wrapped in cron.SkipIfStillRunning, so a tick that fires while the previous
// run of the same job is still busy is dropped. Runs share a context that StopAll cancels.
//
// # Error Handling
//
// A failed run is logged, recorded on its span and counted in delivery_job_runs_total.
// The next tick starts from the committed state.
package jobs
