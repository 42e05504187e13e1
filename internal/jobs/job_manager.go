package jobs

import "fmt"

// Job is a scheduled task the manager can start and stop.
type Job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  Job
}

// JobManager starts jobs in order and stops them in reverse.
type JobManager struct {
	jobs []namedJob
}

// NewJobManager schedules the relay before the requeue job so outcomes
// committed before a restart are flushed first.
func NewJobManager(requeueJob *RequeuePendingOrdersJob, relayJob *OutboxRelayJob) *JobManager {
	return &JobManager{
		jobs: []namedJob{
			{name: "outbox relay job", job: relayJob},
			{name: "requeue job", job: requeueJob},
		},
	}
}

// StartAll starts every job. If one fails the ones already running are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			stopReverse(jm.jobs[:i])
			return fmt.Errorf("failed to start %s: %w", j.name, err)
		}
	}
	return nil
}

// StopAll stops every job and waits for running executions.
func (jm *JobManager) StopAll() {
	stopReverse(jm.jobs)
}

func stopReverse(jobs []namedJob) {
	for i := len(jobs) - 1; i >= 0; i-- {
		jobs[i].job.Stop()
	}
}
