package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

type reconcileHandler interface {
	Handle(ctx context.Context, command commands.ReconcileRiderAvailabilityCommand) (int64, error)
}

// RiderAvailabilityReconcileJob marks riders unavailable while they hold an
// active delivery, repairing claims whose best-effort availability flip did
// not land.
type RiderAvailabilityReconcileJob struct {
	handler reconcileHandler
	logger  *slog.Logger
}

func NewRiderAvailabilityReconcileJob(handler reconcileHandler, logger *slog.Logger) *RiderAvailabilityReconcileJob {
	return &RiderAvailabilityReconcileJob{
		handler: handler,
		logger:  logger.With("component", "rider_availability_reconcile_job"),
	}
}

func (j *RiderAvailabilityReconcileJob) Name() string {
	return "rider availability reconcile"
}

func (j *RiderAvailabilityReconcileJob) Run(ctx context.Context) {
	fixed, err := j.handler.Handle(ctx, commands.NewReconcileRiderAvailabilityCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Rider availability reconcile job failed", "error", err)
		return
	}
	if fixed > 0 {
		j.logger.InfoContext(ctx, "Marked busy riders unavailable", "count", fixed)
	}
}
