package check

import (
	"context"
	"fmt"
	"time"
)

// Pinger probes the persistence backend. The backend itself is an
// external collaborator; only its reachability and latency feed the
// health score.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc is an adapter to allow ordinary functions to be used as
// Pingers.
type PingerFunc func(ctx context.Context) error

// Ping calls the function.
func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// PersistenceConfig configures the built-in persistence check.
type PersistenceConfig struct {
	// WarningLatency scores 75 when crossed. Default: 500ms
	WarningLatency time.Duration

	// CriticalLatency scores 50 when crossed. Default: 1s
	CriticalLatency time.Duration
}

// NewPersistenceCheck returns a check that pings the persistence
// backend and scores its latency. A failed ping scores zero. Register
// this check with Critical set so a dead backend forces overall status
// to critical.
func NewPersistenceCheck(p Pinger, config ...PersistenceConfig) Func {
	cfg := PersistenceConfig{
		WarningLatency:  500 * time.Millisecond,
		CriticalLatency: time.Second,
	}
	if len(config) > 0 {
		c := config[0]
		if c.WarningLatency > 0 {
			cfg.WarningLatency = c.WarningLatency
		}
		if c.CriticalLatency > cfg.WarningLatency {
			cfg.CriticalLatency = c.CriticalLatency
		}
	}

	return func(ctx context.Context) (Outcome, error) {
		if p == nil {
			return Outcome{}, ErrNoPinger
		}

		start := time.Now()
		err := p.Ping(ctx)
		latency := time.Since(start)

		if err != nil {
			out := Score(0)
			out.Details = fmt.Sprintf("ping failed: %v", err)
			out.Metrics = map[string]any{
				"latency_ms": float64(latency.Milliseconds()),
			}
			return out, nil
		}

		var score float64
		switch {
		case latency < cfg.WarningLatency:
			score = 100
		case latency < cfg.CriticalLatency:
			score = 75
		default:
			score = 50
		}

		out := Score(score)
		out.Details = fmt.Sprintf("ping ok in %s", latency.Round(time.Millisecond))
		out.Metrics = map[string]any{
			"latency_ms": float64(latency.Milliseconds()),
		}
		return out, nil
	}
}
