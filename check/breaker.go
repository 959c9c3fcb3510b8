package check

import (
	"context"
	"fmt"
)

// BreakerSummary reports the aggregate state of an external
// circuit-breaker subsystem.
type BreakerSummary struct {
	// OpenBreakers is the number of breakers currently open.
	OpenBreakers int `json:"open_breakers"`

	// OverallHealth is the subsystem's own health estimate in [0, 1].
	OverallHealth float64 `json:"overall_health"`
}

// BreakerSummaryFunc supplies a breaker summary on demand.
type BreakerSummaryFunc func(ctx context.Context) (BreakerSummary, error)

// NewBreakerCheck returns a check scoring the circuit-breaker
// subsystem: the score is OverallHealth scaled to [0, 100].
func NewBreakerCheck(summary BreakerSummaryFunc) Func {
	return func(ctx context.Context) (Outcome, error) {
		if summary == nil {
			return Outcome{}, ErrNoSummary
		}

		s, err := summary(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("breaker summary: %w", err)
		}

		out := Score(s.OverallHealth * 100)
		if s.OpenBreakers > 0 {
			out.Details = fmt.Sprintf("%d breakers open", s.OpenBreakers)
		} else {
			out.Details = "all breakers closed"
		}
		out.Metrics = map[string]any{
			"open_breakers":  s.OpenBreakers,
			"overall_health": s.OverallHealth,
		}
		return out, nil
	}
}
