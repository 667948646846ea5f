// Package jobs provides scheduled background tasks for the dispatch service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ClaimableOrdersRebroadcastJob - re-offers accepted orders nobody claimed
// within the configured age to every connected rider
// 2. RiderAvailabilityReconcileJob - marks riders holding an active delivery
// unavailable
//
// # Usage
//
//	jobManager := jobs.NewJobManager(logger,
//		jobs.Schedule{Spec: "*/30 * * * * *", Job: rebroadcastJob},
//		jobs.Schedule{Spec: "0 */5 * * * *", Job: reconcileJob},
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Specs carry a seconds field. A run that is still going when its next tick
// fires is skipped rather than stacked.
package jobs
