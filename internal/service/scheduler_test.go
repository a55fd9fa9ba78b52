package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"heating_monitor/internal/models"
)

type countingPoller struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newCountingPoller() *countingPoller {
	return &countingPoller{started: make(chan struct{}, 16)}
}

func (p *countingPoller) RunOnce(ctx context.Context) (models.Snapshot, error) {
	p.calls.Add(1)
	select {
	case p.started <- struct{}{}:
	default:
	}
	if p.release != nil {
		<-p.release
	}
	return models.Snapshot{}, nil
}

type fixedRevision int64

func (r fixedRevision) Revision(context.Context) (int64, error) { return int64(r), nil }

func TestScheduler_RunsImmediatelyWhenCacheEmpty(t *testing.T) {
	p := newCountingPoller()
	s := NewScheduler(p, fixedRevision(0), nil)
	if err := s.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	select {
	case <-p.started:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected an immediate cycle on empty cache")
	}
}

func TestScheduler_NoImmediateRunWhenCached(t *testing.T) {
	p := newCountingPoller()
	s := NewScheduler(p, fixedRevision(42), nil)
	if err := s.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	if n := p.calls.Load(); n != 0 {
		t.Fatalf("calls = %d, want 0", n)
	}
}

func TestScheduler_TicksAtInterval(t *testing.T) {
	p := newCountingPoller()
	s := NewScheduler(p, fixedRevision(1), nil)
	if err := s.Start(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case <-p.started:
		case <-time.After(2 * time.Second):
			t.Fatalf("tick %d did not run a cycle", i)
		}
	}
}

func TestScheduler_ConcurrentReconfigureKeepsOneTimer(t *testing.T) {
	s := NewScheduler(newCountingPoller(), fixedRevision(1), nil)
	if err := s.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s.Reconfigure(time.Duration(n) * time.Minute)
		}(i)
	}
	wg.Wait()

	if got := s.ActiveLoops(); got != 1 {
		t.Fatalf("active timers = %d, want 1", got)
	}
	s.Stop()
	if got := s.ActiveLoops(); got != 0 {
		t.Fatalf("active timers after Stop = %d, want 0", got)
	}
}

func TestScheduler_ReconfigureBeforeStartOnlyStoresInterval(t *testing.T) {
	s := NewScheduler(newCountingPoller(), fixedRevision(1), nil)
	s.Reconfigure(5 * time.Second)
	if s.ActiveLoops() != 0 {
		t.Fatalf("no timer expected before Start")
	}
	if s.Interval() != 5*time.Second {
		t.Fatalf("interval = %v", s.Interval())
	}
	s.Reconfigure(0)
	if s.Interval() != 5*time.Second {
		t.Fatalf("non-positive interval must be ignored")
	}
}

func TestScheduler_StartTwiceAndBadInterval(t *testing.T) {
	s := NewScheduler(newCountingPoller(), fixedRevision(1), nil)
	if err := s.Start(context.Background(), 0); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if err := s.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()
	if err := s.Start(context.Background(), time.Hour); !errors.Is(err, ErrSchedulerStarted) {
		t.Fatalf("expected ErrSchedulerStarted, got %v", err)
	}
}

func TestScheduler_StopWaitsForInFlightRuns(t *testing.T) {
	p := newCountingPoller()
	p.release = make(chan struct{})
	s := NewScheduler(p, fixedRevision(1), nil)
	if err := s.Start(context.Background(), time.Hour); err != nil {
		t.Fatalf("Start: %v", err)
	}

	go func() { _, _ = s.RunOnce(context.Background()) }()
	<-p.started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatalf("Stop returned while a run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(p.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after the run finished")
	}

	if _, err := s.RunOnce(context.Background()); !errors.Is(err, ErrSchedulerStopped) {
		t.Fatalf("expected ErrSchedulerStopped after Stop, got %v", err)
	}
}

func TestScheduler_ManualRunIgnoresCallerCancel(t *testing.T) {
	var seen context.Context
	p := pollerFunc(func(ctx context.Context) (models.Snapshot, error) {
		seen = ctx
		return models.Snapshot{}, nil
	})
	s := NewScheduler(p, fixedRevision(1), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if seen.Err() != nil {
		t.Fatalf("poller context must not inherit the caller's cancellation")
	}
}

type pollerFunc func(ctx context.Context) (models.Snapshot, error)

func (f pollerFunc) RunOnce(ctx context.Context) (models.Snapshot, error) { return f(ctx) }
