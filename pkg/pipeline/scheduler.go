package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

// Runner executes one pipeline pass
type Runner interface {
	Run(ctx context.Context, count int) *domain.RunResult
}

// Scheduler repeats pipeline runs on a fixed interval in daemon mode
type Scheduler struct {
	runner   Runner
	interval time.Duration
	count    int
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewScheduler creates a scheduler running count posts every interval
func NewScheduler(runner Runner, interval time.Duration, count int) *Scheduler {
	if interval == 0 {
		interval = 6 * time.Hour
	}
	if count < 1 {
		count = 1
	}
	return &Scheduler{runner: runner, interval: interval, count: count}
}

// Start begins the scheduler, running once immediately
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(ctx)

	lgr.Printf("[INFO] scheduler started with interval %v, %d posts per run", s.interval, s.count)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// run immediately on start
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res := s.runner.Run(ctx, s.count)
	lgr.Printf("[INFO] scheduled run generated %d posts in %v, %d errors",
		res.GeneratedCount, res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond), len(res.Errors))
}
