package monitor

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openfleet/agentmon/check"
)

// Report is one evaluation cycle's aggregated result. Reports are
// immutable once built.
type Report struct {
	// ID uniquely identifies the report.
	ID string `json:"id"`

	// Timestamp is when the cycle completed.
	Timestamp time.Time `json:"timestamp"`

	// OverallScore is the weighted mean of enabled check scores,
	// rounded to the nearest integer, in [0, 100].
	OverallScore int `json:"overall_score"`

	// Status is healthy, warning, critical, or unknown when no enabled
	// checks produced a score.
	Status check.Status `json:"status"`

	// Outcomes maps check name to its normalized outcome.
	Outcomes map[string]check.Outcome `json:"outcomes"`

	// CriticalFailures counts critical checks scoring below the
	// critical threshold.
	CriticalFailures int `json:"critical_failures"`

	// Duration is the wall-clock cost of the cycle.
	Duration time.Duration `json:"duration"`
}

// EvaluatorConfig configures report aggregation.
type EvaluatorConfig struct {
	// AlertThreshold is the score below which status is warning.
	// Default: 70
	AlertThreshold float64

	// CriticalThreshold is the score below which status is critical,
	// and the bar a critical check must clear. Default: 50
	CriticalThreshold float64
}

// Evaluator runs all enabled checks concurrently and aggregates their
// outcomes into a Report.
type Evaluator struct {
	config   EvaluatorConfig
	registry *check.Registry
}

// NewEvaluator creates a new evaluator over the given registry.
func NewEvaluator(registry *check.Registry, config ...EvaluatorConfig) *Evaluator {
	cfg := EvaluatorConfig{
		AlertThreshold:    70,
		CriticalThreshold: 50,
	}
	if len(config) > 0 {
		c := config[0]
		if c.AlertThreshold > 0 {
			cfg.AlertThreshold = c.AlertThreshold
		}
		if c.CriticalThreshold > 0 {
			cfg.CriticalThreshold = c.CriticalThreshold
		}
	}

	return &Evaluator{config: cfg, registry: registry}
}

// Evaluate runs one cycle. The registry is snapshotted at entry, so
// concurrent registration changes affect the next cycle, not this one.
// All enabled checks fan out concurrently, each raced against its own
// timeout; one check's failure or timeout never blocks another's
// evaluation, so the cycle's wall-clock cost is bounded by the slowest
// single timeout. Evaluate never returns an error: check failures
// become error outcomes, and an empty or zero-weight snapshot yields a
// zero-score unknown report.
func (e *Evaluator) Evaluate(ctx context.Context) Report {
	start := time.Now()

	defs := e.registry.List()
	enabled := make([]check.Definition, 0, len(defs))
	for _, d := range defs {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}

	outcomes := make(map[string]check.Outcome, len(enabled))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, def := range enabled {
		wg.Add(1)
		go func(def check.Definition) {
			defer wg.Done()
			out := e.runCheck(ctx, def)
			mu.Lock()
			outcomes[def.Name] = out
			mu.Unlock()
		}(def)
	}
	wg.Wait()

	return e.aggregate(enabled, outcomes, start)
}

// runCheck races one check against its timeout. A late completion of a
// timed-out check is discarded; the goroutine leaks until the check
// function returns, an accepted tradeoff in lieu of forced cancellation.
func (e *Evaluator) runCheck(ctx context.Context, def check.Definition) check.Outcome {
	start := time.Now()
	resultCh := make(chan check.Outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- check.Normalize(def.Name, check.Outcome{}, fmt.Errorf("%w: %v", check.ErrPanic, r))
			}
		}()
		out, err := def.Run(ctx)
		resultCh <- check.Normalize(def.Name, out, err)
	}()

	timer := time.NewTimer(def.Timeout)
	defer timer.Stop()

	select {
	case out := <-resultCh:
		out.Duration = time.Since(start)
		return out
	case <-timer.C:
		return check.Outcome{
			Name:     def.Name,
			Score:    0,
			Status:   check.StatusError,
			Details:  "timeout",
			Duration: time.Since(start),
		}
	case <-ctx.Done():
		out := check.Normalize(def.Name, check.Outcome{}, ctx.Err())
		out.Duration = time.Since(start)
		return out
	}
}

func (e *Evaluator) aggregate(enabled []check.Definition, outcomes map[string]check.Outcome, start time.Time) Report {
	report := Report{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Outcomes:  outcomes,
	}

	var weightSum, scoreSum float64
	for _, def := range enabled {
		out, ok := outcomes[def.Name]
		if !ok {
			continue
		}

		score := check.Clamp(out.Score)
		weightSum += def.Weight
		scoreSum += score * def.Weight

		if def.Critical && score < e.config.CriticalThreshold {
			report.CriticalFailures++
		}
	}

	if weightSum <= 0 {
		report.OverallScore = 0
		report.Status = check.StatusUnknown
		report.Duration = time.Since(start)
		return report
	}

	report.OverallScore = int(math.Round(scoreSum / weightSum))

	// First match wins: a failing critical check overrides the
	// weighted average.
	switch {
	case report.CriticalFailures > 0:
		report.Status = check.StatusCritical
	case float64(report.OverallScore) < e.config.CriticalThreshold:
		report.Status = check.StatusCritical
	case float64(report.OverallScore) < e.config.AlertThreshold:
		report.Status = check.StatusWarning
	default:
		report.Status = check.StatusHealthy
	}

	report.Duration = time.Since(start)
	return report
}
