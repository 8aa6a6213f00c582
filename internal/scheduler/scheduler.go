package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	initialDelay = time.Hour
	interval     = 24 * time.Hour
)

// Job is one unit of periodic work.
type Job func(ctx context.Context) error

// Scheduler runs registered jobs on a fixed daily cadence, starting one
// hour after boot so startup load settles first.
type Scheduler struct {
	logger *zap.Logger
	jobs   map[string]Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an empty Scheduler.
func New(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		logger: logger,
		jobs:   make(map[string]Job),
	}
}

// Register adds a named job. Must be called before Start.
func (s *Scheduler) Register(name string, job Job) {
	s.jobs[name] = job
}

// Start launches the tick loop.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("scheduler started",
		zap.Duration("initial_delay", initialDelay),
		zap.Duration("interval", interval),
		zap.Int("jobs", len(s.jobs)),
	)
}

// Stop cancels the loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	select {
	case <-ctx.Done():
		return
	case <-time.After(initialDelay):
	}
	s.runJobs(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJobs(ctx)
		}
	}
}

func (s *Scheduler) runJobs(ctx context.Context) {
	for name, job := range s.jobs {
		start := time.Now()
		if err := job(ctx); err != nil {
			s.logger.Error("scheduled job failed",
				zap.String("job", name),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("scheduled job finished",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)),
		)
	}
}
