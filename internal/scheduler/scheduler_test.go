package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
)

type countingRunner struct {
	mu    sync.Mutex
	calls int
	block chan struct{}
	err   error
}

func (r *countingRunner) RunCycle(ctx context.Context) error {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	return r.err
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// stubbornRunner ignores cancellation and only returns once released.
type stubbornRunner struct {
	release chan struct{}
}

func (r *stubbornRunner) RunCycle(context.Context) error {
	<-r.release
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newScheduler(runner Runner, interval time.Duration, clock clockwork.Clock) *Scheduler {
	return New(runner, interval, time.Second, clock, observability.NewMetricsForTesting(), discardLogger())
}

func TestScheduler_RunsImmediatelyOnStart(t *testing.T) {
	runner := &countingRunner{}
	s := newScheduler(runner, time.Hour, nil)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, StateRunning, s.State())
}

func TestScheduler_TicksTriggerRuns(t *testing.T) {
	clock := clockwork.NewFakeClock()
	runner := &countingRunner{}
	s := newScheduler(runner, 5*time.Minute, clock)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)

	clock.BlockUntil(1)
	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return runner.count() == 2 }, time.Second, 10*time.Millisecond)

	clock.BlockUntil(1)
	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return runner.count() == 3 }, time.Second, 10*time.Millisecond)
}

func TestScheduler_SkipsTickWhileRunInFlight(t *testing.T) {
	clock := clockwork.NewFakeClock()
	release := make(chan struct{})
	runner := &countingRunner{block: release}
	s := newScheduler(runner, 5*time.Minute, clock)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	defer close(release)

	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)

	// The first run is still blocked; the next tick must be dropped, not
	// queued behind it.
	clock.BlockUntil(1)
	clock.Advance(5 * time.Minute)
	assert.Never(t, func() bool { return runner.count() > 1 }, 100*time.Millisecond, 10*time.Millisecond)

	release <- struct{}{}
	assert.Eventually(t, func() bool { return !s.inFlight.Load() }, time.Second, 10*time.Millisecond)
	clock.BlockUntil(1)
	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return runner.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestScheduler_StartTwiceFails(t *testing.T) {
	s := newScheduler(&countingRunner{}, time.Hour, nil)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running")
}

func TestScheduler_StopBeforeStartFails(t *testing.T) {
	s := newScheduler(&countingRunner{}, time.Hour, nil)

	err := s.Stop()
	require.Error(t, err)
	assert.Equal(t, StateIdle, s.State())
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	release := make(chan struct{})
	runner := &countingRunner{block: release}
	s := newScheduler(runner, time.Hour, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Stop() }()

	// Stop must block until the run finishes on its own.
	select {
	case err := <-errCh:
		t.Fatalf("Stop returned before the in-flight run finished: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-errCh)
	assert.Equal(t, StateStopped, s.State())
}

// ctxRecordingRunner blocks mid-execution and records whether its context
// was canceled before it was released.
type ctxRecordingRunner struct {
	started chan struct{}
	release chan struct{}

	mu     sync.Mutex
	ctxErr error
}

func (r *ctxRecordingRunner) RunCycle(ctx context.Context) error {
	close(r.started)
	<-r.release
	r.mu.Lock()
	r.ctxErr = ctx.Err()
	r.mu.Unlock()
	return nil
}

func (r *ctxRecordingRunner) contextErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctxErr
}

func TestScheduler_StopDoesNotCancelInFlightRun(t *testing.T) {
	runner := &ctxRecordingRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newScheduler(runner, time.Hour, nil)

	require.NoError(t, s.Start(context.Background()))
	<-runner.started

	errCh := make(chan error, 1)
	go func() { errCh <- s.Stop() }()

	// Give Stop time to halt the loop while the run is still blocked.
	time.Sleep(50 * time.Millisecond)
	close(runner.release)

	require.NoError(t, <-errCh)
	assert.NoError(t, runner.contextErr(), "in-flight run must finish on an uncanceled context")
	assert.Equal(t, StateStopped, s.State())
}

func TestScheduler_ParentCancelHaltsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := &countingRunner{}
	s := newScheduler(runner, time.Hour, nil)

	require.NoError(t, s.Start(ctx))
	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	assert.Eventually(t, func() bool { return s.State() == StateStopping }, time.Second, 10*time.Millisecond)

	// Stop still reaps the halted loop and reaches the terminal state.
	require.NoError(t, s.Stop())
	assert.Equal(t, StateStopped, s.State())
}

func TestScheduler_StopTimesOutOnStuckRun(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	runner := &stubbornRunner{release: release}
	s := New(runner, time.Hour, 50*time.Millisecond, nil, observability.NewMetricsForTesting(), discardLogger())

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return s.inFlight.Load() }, time.Second, 10*time.Millisecond)

	err := s.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Equal(t, StateStopped, s.State())
}

func TestScheduler_RunnerErrorDoesNotStopTicking(t *testing.T) {
	clock := clockwork.NewFakeClock()
	runner := &countingRunner{err: errors.New("all facets failed")}
	s := newScheduler(runner, 5*time.Minute, clock)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)

	clock.BlockUntil(1)
	clock.Advance(5 * time.Minute)
	assert.Eventually(t, func() bool { return runner.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, StateRunning, s.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopping", StateStopping.String())
	assert.Equal(t, "stopped", StateStopped.String())
}
