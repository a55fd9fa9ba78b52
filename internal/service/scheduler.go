package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"heating_monitor/internal/logger"
	"heating_monitor/internal/models"
)

var (
	ErrSchedulerStarted = errors.New("scheduler already started")
	ErrSchedulerStopped = errors.New("scheduler stopped")
	ErrInvalidInterval  = errors.New("poll interval must be positive")
)

// RevisionSource tells whether the cache already holds a snapshot.
type RevisionSource interface {
	Revision(ctx context.Context) (int64, error)
}

// Scheduler drives the poller from a single timer goroutine. Timed and manual
// runs go through the same RunOnce and may overlap.
type Scheduler struct {
	poller Poller
	cache  RevisionSource
	log    *logger.Logger

	mu       sync.Mutex // serializes Start, Reconfigure and Stop
	base     context.Context
	interval time.Duration
	stopLoop context.CancelFunc
	loopDone chan struct{}

	runMu  sync.Mutex
	closed bool
	runs   sync.WaitGroup

	loops atomic.Int32
}

func NewScheduler(p Poller, cache RevisionSource, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{poller: p, cache: cache, log: log}
}

// Start launches the timer. ctx bounds every run started by the scheduler.
// A cycle runs right away when the cache is still empty.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.base != nil {
		return ErrSchedulerStarted
	}
	s.base = ctx
	s.interval = interval

	rev, err := s.cache.Revision(ctx)
	if err != nil {
		s.log.Warnw("cache_revision_failed", "err", err)
	}
	if rev == 0 {
		s.spawn()
	}
	s.startLoop(interval)
	s.log.Infow("scheduler_started", "interval", interval.String())
	return nil
}

// Reconfigure replaces the running timer. The old loop has exited before the
// new one starts, so at most one timer is ever active. In-flight runs continue.
func (s *Scheduler) Reconfigure(interval time.Duration) {
	if interval <= 0 {
		s.log.Warnw("scheduler_reconfigure_ignored", "interval", interval.String())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	if s.stopLoop == nil {
		return
	}
	s.stopLoop()
	<-s.loopDone
	s.startLoop(interval)
	s.log.Infow("scheduler_reconfigured", "interval", interval.String())
}

// RunOnce runs a manual cycle on the caller's goroutine. Cancelling ctx after
// the cycle has begun does not abort it; the cycle timeout still applies.
func (s *Scheduler) RunOnce(ctx context.Context) (models.Snapshot, error) {
	if !s.track() {
		return nil, ErrSchedulerStopped
	}
	defer s.runs.Done()
	return s.poller.RunOnce(context.WithoutCancel(ctx))
}

// Stop cancels the timer and waits for in-flight runs.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopLoop != nil {
		s.stopLoop()
		<-s.loopDone
		s.stopLoop = nil
	}
	s.mu.Unlock()

	s.runMu.Lock()
	s.closed = true
	s.runMu.Unlock()
	s.runs.Wait()
	s.log.Infow("scheduler_stopped")
}

// Interval returns the current timer period.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// ActiveLoops reports how many timer goroutines are running.
func (s *Scheduler) ActiveLoops() int {
	return int(s.loops.Load())
}

// startLoop must be called with mu held.
func (s *Scheduler) startLoop(interval time.Duration) {
	ctx, cancel := context.WithCancel(s.base)
	done := make(chan struct{})
	s.stopLoop, s.loopDone = cancel, done

	s.loops.Add(1)
	go func() {
		defer close(done)
		defer s.loops.Add(-1)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.spawn()
			}
		}
	}()
}

func (s *Scheduler) spawn() {
	if !s.track() {
		return
	}
	go func() {
		defer s.runs.Done()
		if _, err := s.poller.RunOnce(s.base); err != nil {
			s.log.Debugw("scheduled_poll_failed", "err", err)
		}
	}()
}

func (s *Scheduler) track() bool {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.closed {
		return false
	}
	s.runs.Add(1)
	return true
}
