package check

import (
	"context"
	"time"
)

// Status represents the health status reported by a check or derived
// from an aggregated score.
type Status string

const (
	// StatusHealthy indicates the probed component is functioning normally.
	StatusHealthy Status = "healthy"
	// StatusWarning indicates degraded but functional behavior.
	StatusWarning Status = "warning"
	// StatusCritical indicates the component is failing or about to fail.
	StatusCritical Status = "critical"
	// StatusError indicates the check itself failed to run (timeout, panic,
	// returned error). It scores zero for aggregation purposes.
	StatusError Status = "error"
	// StatusDisabled marks a check that is registered but not evaluated.
	StatusDisabled Status = "disabled"
	// StatusUnknown is reported when no enabled checks produced a score.
	StatusUnknown Status = "unknown"
)

// Outcome is the normalized result of one check run. Outcomes are built
// fresh each evaluation cycle and never mutated afterward.
type Outcome struct {
	// Name is the check that produced this outcome.
	Name string `json:"name"`

	// Score is the health score in [0, 100].
	Score float64 `json:"score"`

	// Status is the normalized status for this outcome.
	Status Status `json:"status"`

	// Details is a human-readable explanation of the score.
	Details string `json:"details,omitempty"`

	// Metrics holds arbitrary measurements captured by the check.
	Metrics map[string]any `json:"metrics,omitempty"`

	// Duration is how long the check ran.
	Duration time.Duration `json:"duration"`
}

// Func is a health check. It returns a partial Outcome which is
// normalized at the registry boundary: missing fields are filled in,
// the score is clamped, and a non-nil error replaces the outcome with
// a zero-score error outcome.
type Func func(ctx context.Context) (Outcome, error)

// Score builds an outcome from a bare score, deriving the status from
// the score alone.
func Score(n float64) Outcome {
	return Outcome{Score: Clamp(n), Status: StatusForScore(n)}
}

// StatusForScore derives a status from a score: above 70 is healthy,
// above 50 is warning, anything else is critical.
func StatusForScore(n float64) Status {
	switch {
	case n > 70:
		return StatusHealthy
	case n > 50:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// Clamp bounds a score to [0, 100].
func Clamp(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Normalize converts a raw check result into a complete Outcome.
// A non-nil error wins over whatever the check returned.
func Normalize(name string, out Outcome, err error) Outcome {
	if err != nil {
		return Outcome{
			Name:    name,
			Score:   0,
			Status:  StatusError,
			Details: err.Error(),
		}
	}

	out.Name = name
	out.Score = Clamp(out.Score)
	if out.Status == "" {
		out.Status = StatusForScore(out.Score)
	}
	return out
}
