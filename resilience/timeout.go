package resilience

import (
	"context"
	"time"
)

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the hard upper bound for the operation.
	// Default: 10 seconds
	Timeout time.Duration
}

// Timeout races delegated operations against a deadline. Probes and
// remediation actions may suspend on I/O; the race guarantees the
// caller observes a bounded wall-clock cost. A late completion of the
// abandoned operation is discarded, not cancelled; the goroutine leaks
// until the operation returns, an accepted tradeoff.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Timeout{config: config}
}

// Execute runs the operation, returning ErrTimeout if the deadline
// expires first. The operation receives a context carrying the
// deadline so cooperative implementations can stop early.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// ExecuteWithTimeout is a convenience function to run one operation
// under a deadline.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	t := NewTimeout(TimeoutConfig{Timeout: timeout})
	return t.Execute(ctx, op)
}
