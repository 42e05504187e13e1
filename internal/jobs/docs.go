// Package jobs provides scheduled background tasks for the dispatch service.
//
// # Available Jobs
//
// 1. RequeuePendingOrdersJob - republishes assignment requests for orders still Pending after a configurable age
// 2. OutboxRelayJob - publishes dispatch outcomes that were committed but not delivered
//
// # Usage
//
//	manager := jobs.NewJobManager(requeueJob, relayJob)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Scheduling
//
// Schedules use the six-field cron syntax (seconds first) or descriptors like
// "@every 30s". A run that is still going when the next one is due is skipped.
//
// Each run gets its own timeout. Failures are logged and the next run retries.
package jobs
