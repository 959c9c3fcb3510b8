package check

import (
	"context"
	"fmt"
	"time"
)

// LatencyConfig configures the built-in scheduler-latency check.
type LatencyConfig struct {
	// WarningDelay scores 75 when crossed. Default: 20ms
	WarningDelay time.Duration

	// HighDelay scores 50 when crossed. Default: 50ms
	HighDelay time.Duration

	// CriticalDelay scores 10 when crossed. Default: 100ms
	CriticalDelay time.Duration
}

// NewSchedulerLatencyCheck returns a check that measures how long the
// runtime takes to fire a zero-delay timer. A loaded or starved process
// fires late; the measured delay tiers at 100/75/50/10 across the
// configured thresholds.
func NewSchedulerLatencyCheck(config ...LatencyConfig) Func {
	cfg := LatencyConfig{
		WarningDelay:  20 * time.Millisecond,
		HighDelay:     50 * time.Millisecond,
		CriticalDelay: 100 * time.Millisecond,
	}
	if len(config) > 0 {
		c := config[0]
		if c.WarningDelay > 0 {
			cfg.WarningDelay = c.WarningDelay
		}
		if c.HighDelay > cfg.WarningDelay {
			cfg.HighDelay = c.HighDelay
		}
		if c.CriticalDelay > cfg.HighDelay {
			cfg.CriticalDelay = c.CriticalDelay
		}
	}

	return func(ctx context.Context) (Outcome, error) {
		start := time.Now()
		fired := make(chan struct{})
		timer := time.AfterFunc(0, func() { close(fired) })
		defer timer.Stop()

		select {
		case <-fired:
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		}
		delay := time.Since(start)

		var score float64
		switch {
		case delay < cfg.WarningDelay:
			score = 100
		case delay < cfg.HighDelay:
			score = 75
		case delay < cfg.CriticalDelay:
			score = 50
		default:
			score = 10
		}

		out := Score(score)
		out.Details = fmt.Sprintf("timer fired after %s", delay.Round(time.Microsecond))
		out.Metrics = map[string]any{
			"delay_ms": float64(delay.Microseconds()) / 1000.0,
		}
		return out, nil
	}
}
