// Package scheduler runs a job on a fixed interval with a cancellable
// handle. It replaces ambient cron state with an explicitly constructed
// value started at process startup and stopped at shutdown.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a unit of recurring work. Long-running jobs should honor ctx.
type Job func(ctx context.Context)

// Scheduler triggers a named job every interval. The first run happens
// one interval after Start, not immediately.
type Scheduler struct {
	name     string
	interval time.Duration
	job      Job
	log      *zap.SugaredLogger

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// New creates a scheduler for the given job.
func New(name string, interval time.Duration, job Job, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		name:     name,
		interval: interval,
		job:      job,
		log:      log,
	}
}

// Start launches the ticker goroutine. Calling Start twice is a no-op.
func (s *Scheduler) Start() {
	s.once.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.done = make(chan struct{})

		go s.run(ctx)
		s.log.Infow("scheduler started", "job", s.name, "interval", s.interval.String())
	})
}

// Stop cancels the job context and waits for the ticker goroutine to exit.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.log.Infow("scheduler stopped", "job", s.name)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.log.Debugw("scheduler tick", "job", s.name)
			s.job(ctx)
		}
	}
}
