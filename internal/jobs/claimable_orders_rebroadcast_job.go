package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/queries"
)

// claimableOrdersSource lists claimable orders; ListClaimableOrdersQueryHandler
// satisfies it.
type claimableOrdersSource interface {
	Handle(ctx context.Context, query queries.ListClaimableOrdersQuery) ([]queries.OrderView, error)
}

// availabilityAnnouncer offers an order to every rider; notify.Fanout satisfies it.
type availabilityAnnouncer interface {
	OrderAvailable(ctx context.Context, view queries.OrderView)
}

// ClaimableOrdersRebroadcastJob re-offers orders that stayed unclaimed longer
// than the configured age, for riders who were offline when the store
// accepted them.
type ClaimableOrdersRebroadcastJob struct {
	source    claimableOrdersSource
	announcer availabilityAnnouncer
	after     time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

func NewClaimableOrdersRebroadcastJob(
	source claimableOrdersSource,
	announcer availabilityAnnouncer,
	after time.Duration,
	logger *slog.Logger,
) *ClaimableOrdersRebroadcastJob {
	return &ClaimableOrdersRebroadcastJob{
		source:    source,
		announcer: announcer,
		after:     after,
		now:       time.Now,
		logger:    logger.With("component", "claimable_orders_rebroadcast_job"),
	}
}

func (j *ClaimableOrdersRebroadcastJob) Name() string {
	return "claimable orders rebroadcast"
}

// Run re-offers every stale claimable order once.
func (j *ClaimableOrdersRebroadcastJob) Run(ctx context.Context) {
	query, err := queries.NewStaleClaimableOrdersQuery(j.now().Add(-j.after))
	if err != nil {
		j.logger.ErrorContext(ctx, "Rebroadcast query invalid", "error", err)
		return
	}

	views, err := j.source.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Rebroadcast job failed", "error", err)
		return
	}

	for _, v := range views {
		j.announcer.OrderAvailable(ctx, v)
	}
	if len(views) > 0 {
		j.logger.DebugContext(ctx, "Rebroadcast claimable orders", "count", len(views))
	}
}
