package check

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryConfig configures the built-in memory check. Thresholds are
// heap-used/heap-total ratios in (0, 1).
type MemoryConfig struct {
	// WarningRatio scores 75 when crossed. Default: 0.70
	WarningRatio float64

	// HighRatio scores 50 when crossed. Default: 0.80
	HighRatio float64

	// CriticalRatio scores 10 when crossed. Default: 0.90
	CriticalRatio float64
}

// NewMemoryCheck returns a check scoring heap pressure from runtime
// memory statistics. Scores tier at 100/75/50/10 across the configured
// ratio thresholds.
func NewMemoryCheck(config ...MemoryConfig) Func {
	cfg := MemoryConfig{
		WarningRatio:  0.70,
		HighRatio:     0.80,
		CriticalRatio: 0.90,
	}
	if len(config) > 0 {
		c := config[0]
		if c.WarningRatio > 0 && c.WarningRatio < 1 {
			cfg.WarningRatio = c.WarningRatio
		}
		if c.HighRatio > cfg.WarningRatio && c.HighRatio < 1 {
			cfg.HighRatio = c.HighRatio
		}
		if c.CriticalRatio > cfg.HighRatio && c.CriticalRatio < 1 {
			cfg.CriticalRatio = c.CriticalRatio
		}
	}

	return func(ctx context.Context) (Outcome, error) {
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		default:
		}

		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)

		var ratio float64
		if stats.HeapSys > 0 {
			ratio = float64(stats.HeapAlloc) / float64(stats.HeapSys)
		}

		var score float64
		switch {
		case ratio < cfg.WarningRatio:
			score = 100
		case ratio < cfg.HighRatio:
			score = 75
		case ratio < cfg.CriticalRatio:
			score = 50
		default:
			score = 10
		}

		out := Score(score)
		out.Details = fmt.Sprintf("heap usage %.1f%%", ratio*100)
		out.Metrics = map[string]any{
			"heap_alloc_bytes": stats.HeapAlloc,
			"heap_sys_bytes":   stats.HeapSys,
			"heap_objects":     stats.HeapObjects,
			"num_gc":           stats.NumGC,
			"goroutines":       runtime.NumGoroutine(),
			"usage_ratio":      ratio,
		}
		return out, nil
	}
}
