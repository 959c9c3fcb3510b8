package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openfleet/agentmon/observe"
)

// SchedulerConfig configures the periodic cycle driver.
type SchedulerConfig struct {
	// Interval between evaluation cycles. Default: 30 seconds
	Interval time.Duration
}

// Scheduler drives periodic evaluation cycles. It owns the single
// mutable running flag and guarantees non-overlapping cycles: a tick
// that fires while a cycle is still running is skipped, not queued.
type Scheduler struct {
	config SchedulerConfig
	cycle  func(ctx context.Context)
	logger observe.Logger

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}

	busy atomic.Bool
}

// NewScheduler creates a scheduler around a cycle function.
func NewScheduler(cycle func(ctx context.Context), logger observe.Logger, config ...SchedulerConfig) *Scheduler {
	cfg := SchedulerConfig{Interval: 30 * time.Second}
	if len(config) > 0 && config[0].Interval > 0 {
		cfg.Interval = config[0].Interval
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	return &Scheduler{
		config: cfg,
		cycle:  cycle,
		logger: logger,
	}
}

// Start begins periodic cycling: one immediate cycle, then one per
// interval. Starting a running scheduler logs a warning and no-ops.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn(context.Background(), "scheduler already running")
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go s.run(stop, done)
}

func (s *Scheduler) run(stop, done chan struct{}) {
	defer close(done)

	s.tick()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-stop:
			return
		}
	}
}

// tick runs one guarded cycle. The CAS guard makes the cycle
// non-reentrant: an overlapping tick observes busy and is dropped.
func (s *Scheduler) tick() {
	if !s.busy.CompareAndSwap(false, true) {
		s.logger.Debug(context.Background(), "cycle still running, tick skipped")
		return
	}
	defer s.busy.Store(false)

	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "cycle panicked", observe.F("panic", r))
		}
	}()

	s.cycle(ctx)
}

// Stop cancels the ticker and waits for the loop to exit. Stopping a
// stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

// Running reports whether the scheduler is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
