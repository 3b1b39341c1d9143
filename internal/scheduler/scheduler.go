package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
)

// Runner is the unit of work the scheduler drives on every tick.
type Runner interface {
	RunCycle(ctx context.Context) error
}

// State is the scheduler lifecycle. Transitions only move forward:
// Idle -> Running -> Stopping -> Stopped.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Scheduler runs the pipeline once immediately on Start, then once per
// interval. Executions never overlap: a tick that arrives while a run is
// still in flight is skipped, not queued.
type Scheduler struct {
	runner      Runner
	interval    time.Duration
	stopTimeout time.Duration
	clock       clockwork.Clock
	metrics     *observability.Metrics
	logger      *slog.Logger

	mu       sync.Mutex
	state    State
	cancel   context.CancelFunc
	runCtx   context.Context
	done     chan struct{}
	inFlight atomic.Bool
	runWG    sync.WaitGroup
}

// New creates a Scheduler. Pass a nil clock to use real time.
func New(runner Runner, interval, stopTimeout time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{
		runner:      runner,
		interval:    interval,
		stopTimeout: stopTimeout,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
		state:       StateIdle,
		done:        make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start transitions Idle -> Running and launches the tick loop. The first
// execution is kicked off immediately, before the first interval elapses.
// Starting from any state other than Idle is an error.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return fmt.Errorf("cannot start scheduler in state %s", s.state)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	// Executions run on a context that does not inherit cancellation:
	// stopping the loop is observed at the next tick boundary, while an
	// in-flight run finishes under its own fetch timeout.
	s.runCtx = context.WithoutCancel(ctx)
	s.state = StateRunning

	go s.loop(loopCtx)
	s.logger.Info("scheduler started", "interval", s.interval)
	return nil
}

// Stop halts the tick loop and waits for an in-flight execution to finish,
// up to the stop timeout. The in-flight run is never interrupted; it is
// bounded by its own fetch timeout. The scheduler ends in Stopped either
// way; on timeout the straggling run is abandoned and an error returned.
// Stop also reaps a loop already halted by parent context cancellation.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning && s.state != StateStopping {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("cannot stop scheduler in state %s", state)
	}
	s.state = StateStopping
	s.cancel()
	s.mu.Unlock()

	<-s.done

	finished := make(chan struct{})
	go func() {
		s.runWG.Wait()
		close(finished)
	}()

	var err error
	select {
	case <-finished:
	case <-s.clock.After(s.stopTimeout):
		err = fmt.Errorf("timed out after %s waiting for in-flight run", s.stopTimeout)
		s.logger.Error("scheduler stop timed out", "timeout", s.stopTimeout)
	}

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	s.logger.Info("scheduler stopped")
	return err
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	s.dispatch()

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			if s.state == StateRunning {
				s.state = StateStopping
			}
			s.mu.Unlock()
			return
		case <-ticker.Chan():
			s.dispatch()
		}
	}
}

// dispatch starts one execution unless the previous one is still running.
// Runs use the detached run context so a later Stop cannot abort them
// mid-execution.
func (s *Scheduler) dispatch() {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.metrics.TicksSkipped.Inc()
		s.logger.Warn("tick skipped, previous run still in flight")
		return
	}

	s.runWG.Add(1)
	go func() {
		defer s.runWG.Done()
		defer s.inFlight.Store(false)

		if err := s.runner.RunCycle(s.runCtx); err != nil {
			s.metrics.CyclesFailed.Inc()
			s.logger.Error("cycle failed", "error", err)
		}
	}()
}
