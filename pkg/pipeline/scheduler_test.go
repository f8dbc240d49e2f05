package pipeline

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shshajek-cpu/blogwise-sub000/pkg/domain"
)

type countingRunner struct {
	runs  atomic.Int32
	count int
}

func (r *countingRunner) Run(_ context.Context, count int) *domain.RunResult {
	r.runs.Add(1)
	r.count = count
	now := time.Now()
	return &domain.RunResult{StartedAt: now, FinishedAt: now}
}

func TestScheduler_StartStop(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 30*time.Millisecond, 2)

	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	got := runner.runs.Load()
	assert.GreaterOrEqual(t, got, int32(2), "immediate run plus at least one tick")
	assert.Equal(t, 2, runner.count)

	// no further runs after stop
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, got, runner.runs.Load())
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := NewScheduler(&countingRunner{}, time.Hour, 1)
	assert.NotPanics(t, s.Stop)
}

func TestScheduler_ContextCancelStopsRuns(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 20*time.Millisecond, 1)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	time.Sleep(30 * time.Millisecond)

	got := runner.runs.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, got, runner.runs.Load())
	s.Stop()
}
