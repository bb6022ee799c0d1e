// File: /jobs/draft_cleanup_job.go
package jobs

import (
	"time"

	"github.com/sirupsen/logrus"

	"injoy-api/services"
)

// DraftCleanupJob periodically evicts abandoned wizard sessions so their
// staged photo binaries do not accumulate in memory.
type DraftCleanupJob struct {
	wizard  *services.WizardService
	maxIdle time.Duration
	ticker  *time.Ticker
	done    chan bool
	log     *logrus.Logger
}

func NewDraftCleanupJob(wizard *services.WizardService, interval, maxIdle time.Duration, log *logrus.Logger) *DraftCleanupJob {
	return &DraftCleanupJob{
		wizard:  wizard,
		maxIdle: maxIdle,
		ticker:  time.NewTicker(interval),
		done:    make(chan bool),
		log:     log,
	}
}

// Start begins the cleanup job
func (j *DraftCleanupJob) Start() {
	j.log.Info("Draft cleanup job started")

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.cleanup()
			case <-j.done:
				j.log.Info("Draft cleanup job stopped")
				return
			}
		}
	}()
}

// Stop stops the cleanup job
func (j *DraftCleanupJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *DraftCleanupJob) cleanup() {
	evicted := j.wizard.EvictIdleSessions(j.maxIdle)
	if evicted > 0 {
		j.log.WithField("evicted", evicted).Info("Evicted idle draft sessions")
	}
}
