package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestSchedulerRunsAndStops(t *testing.T) {
	var runs atomic.Int64
	job := func(ctx context.Context) {
		runs.Add(1)
	}

	s := New("test-job", 10*time.Millisecond, job, zap.NewNop().Sugar())
	s.Start()

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("job ran %d times, expected at least 2", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}

	s.Stop()
	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != after {
		t.Errorf("job ran after Stop: %d -> %d", after, runs.Load())
	}
}

func TestSchedulerStartTwice(t *testing.T) {
	s := New("noop", time.Hour, func(ctx context.Context) {}, zap.NewNop().Sugar())
	s.Start()
	s.Start()
	s.Stop()
}

func TestSchedulerStopWithoutStart(t *testing.T) {
	s := New("noop", time.Hour, func(ctx context.Context) {}, zap.NewNop().Sugar())
	s.Stop()
}
