package check

import (
	"context"
	"fmt"
	"runtime/metrics"
	"sync"
	"time"
)

// Runtime metric keys sampled for process CPU consumption.
const (
	cpuUserMetric = "/cpu/classes/user:cpu-seconds"
	cpuGCMetric   = "/cpu/classes/gc/total:cpu-seconds"
)

// CPUConfig configures the built-in CPU check. Thresholds are CPU time
// consumed, not wall-clock time.
type CPUConfig struct {
	// WarningBudget scores 75 when exceeded. Default: 200ms
	WarningBudget time.Duration

	// HighBudget scores 50 when exceeded. Default: 500ms
	HighBudget time.Duration

	// CriticalBudget scores 10 when exceeded. Default: 1s
	CriticalBudget time.Duration

	// Delta scores CPU consumed since the previous sample instead of
	// since process start. The cumulative default matches the original
	// behavior, which drifts toward critical with process age.
	Delta bool
}

// NewCPUCheck returns a check scoring process CPU consumption from
// runtime metrics (user + GC CPU seconds).
func NewCPUCheck(config ...CPUConfig) Func {
	cfg := CPUConfig{
		WarningBudget:  200 * time.Millisecond,
		HighBudget:     500 * time.Millisecond,
		CriticalBudget: time.Second,
	}
	if len(config) > 0 {
		c := config[0]
		if c.WarningBudget > 0 {
			cfg.WarningBudget = c.WarningBudget
		}
		if c.HighBudget > cfg.WarningBudget {
			cfg.HighBudget = c.HighBudget
		}
		if c.CriticalBudget > cfg.HighBudget {
			cfg.CriticalBudget = c.CriticalBudget
		}
		cfg.Delta = c.Delta
	}

	var mu sync.Mutex
	var last float64
	var primed bool

	return func(ctx context.Context) (Outcome, error) {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		default:
		}

		total := cpuSeconds()

		used := total
		if cfg.Delta {
			mu.Lock()
			if primed {
				used = total - last
			} else {
				// First sample has no baseline; score the cumulative
				// value once and measure deltas from here on.
				primed = true
			}
			last = total
			mu.Unlock()
		}

		usedDur := time.Duration(used * float64(time.Second))

		var score float64
		switch {
		case usedDur < cfg.WarningBudget:
			score = 100
		case usedDur < cfg.HighBudget:
			score = 75
		case usedDur < cfg.CriticalBudget:
			score = 50
		default:
			score = 10
		}

		out := Score(score)
		out.Details = fmt.Sprintf("cpu time %s", usedDur.Round(time.Millisecond))
		out.Metrics = map[string]any{
			"cpu_seconds":       used,
			"cpu_seconds_total": total,
			"delta":             cfg.Delta,
		}
		return out, nil
	}
}

// cpuSeconds reads cumulative user+GC CPU seconds for the process.
func cpuSeconds() float64 {
	samples := []metrics.Sample{
		{Name: cpuUserMetric},
		{Name: cpuGCMetric},
	}
	metrics.Read(samples)

	var total float64
	for _, s := range samples {
		if s.Value.Kind() == metrics.KindFloat64 {
			total += s.Value.Float64()
		}
	}
	return total
}
