// Package syncer debounces local mutations into remote sync calls.
//
// Every Schedule restarts a quiet-window timer. When the window elapses
// without another Schedule the sync function runs once. A fire that finds a
// sync already in flight is dropped, and failures are recorded but never
// retried: the next mutation schedules a fresh attempt.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
)

// DefaultWindow is the quiet period between the last change and a push.
const DefaultWindow = 2000 * time.Millisecond

var (
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrStopped        = errors.New("scheduler stopped")
)

type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateOK      State = "ok"
	StateError   State = "error"
)

// Status is a snapshot of the scheduler's last outcome.
type Status struct {
	State    State
	LastErr  error
	LastSync time.Time
	Pending  bool
}

// SyncFunc pushes the current local state to the server.
type SyncFunc func(ctx context.Context) error

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithWindow(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithTimeout bounds a single sync run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

type Scheduler struct {
	mu       sync.Mutex
	clock    Clock
	window   time.Duration
	timeout  time.Duration
	fn       SyncFunc
	logger   logging.Logger
	now      func() time.Time
	timer    Timer
	gen      uint64
	inFlight bool
	stopped  bool
	status   Status
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(fn SyncFunc, logger logging.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		clock:  RealClock(),
		window: DefaultWindow,
		fn:     fn,
		logger: logger.With("module", "syncer"),
		now:    time.Now,
		status: Status{State: StateIdle},
		ctx:    ctx,
		cancel: cancel,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Schedule (re)starts the quiet window.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.window, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Debug(s.ctx, "sync in flight, dropping scheduled run")
		return
	}
	s.begin()
	s.mu.Unlock()

	_ = s.run()
}

// Flush runs a sync right away, cancelling any pending timer.
func (s *Scheduler) Flush(ctx context.Context) error {
	return s.FlushWith(ctx, s.fn)
}

// FlushWith is Flush running fn in place of the scheduled sync function,
// under the same in-flight guard and timeout.
func (s *Scheduler) FlushWith(ctx context.Context, fn SyncFunc) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSyncInProgress
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.begin()
	s.mu.Unlock()

	return s.runWith(ctx, fn)
}

// Stop cancels the pending timer and waits for a running sync to return.
// Schedule and Flush do nothing afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.status
	st.Pending = s.timer != nil
	return st
}

// begin marks a run as started; caller holds mu.
func (s *Scheduler) begin() {
	s.inFlight = true
	s.status.State = StateSyncing
	s.wg.Add(1)
}

func (s *Scheduler) run() error {
	return s.runWith(s.ctx, s.fn)
}

func (s *Scheduler) runWith(ctx context.Context, fn SyncFunc) error {
	defer s.wg.Done()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := s.now()
	err := fn(ctx)

	s.mu.Lock()
	s.inFlight = false
	s.status.LastErr = err
	if err != nil {
		s.status.State = StateError
	} else {
		s.status.State = StateOK
		s.status.LastSync = started
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn(ctx, "sync failed", "error", err)
	} else {
		s.logger.Debug(ctx, "sync finished", "took", s.now().Sub(started))
	}
	return err
}
