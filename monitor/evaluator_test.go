package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openfleet/agentmon/check"
)

func fixedCheck(score float64) check.Func {
	return func(ctx context.Context) (check.Outcome, error) {
		return check.Score(score), nil
	}
}

func TestEvaluator_WeightedAverage(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("a", fixedCheck(80), check.Options{Weight: 1})
	reg.Register("b", fixedCheck(100), check.Options{Weight: 3})

	e := NewEvaluator(reg)
	report := e.Evaluate(context.Background())

	// (80*1 + 100*3) / 4 = 95
	if report.OverallScore != 95 {
		t.Errorf("OverallScore = %d, want 95", report.OverallScore)
	}
	if report.Status != check.StatusHealthy {
		t.Errorf("Status = %v, want healthy", report.Status)
	}
	if len(report.Outcomes) != 2 {
		t.Errorf("Outcomes = %d, want 2", len(report.Outcomes))
	}
	if report.ID == "" {
		t.Error("report should carry an ID")
	}
}

func TestEvaluator_CriticalOverride(t *testing.T) {
	// Nine perfect checks cannot outvote one failing critical check.
	reg := check.NewRegistry()
	for _, name := range []string{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"} {
		reg.Register(name, fixedCheck(100), check.Options{})
	}
	reg.Register("critical", fixedCheck(10), check.Options{Critical: true})

	report := NewEvaluator(reg).Evaluate(context.Background())

	if report.OverallScore != 91 {
		t.Errorf("OverallScore = %d, want 91", report.OverallScore)
	}
	if report.Status != check.StatusCritical {
		t.Errorf("Status = %v, want critical (override)", report.Status)
	}
	if report.CriticalFailures != 1 {
		t.Errorf("CriticalFailures = %d, want 1", report.CriticalFailures)
	}
}

func TestEvaluator_CriticalOverride_WeightedScenario(t *testing.T) {
	// memory 90 (weight 2) + persistence 30 (weight 3, critical) gives
	// weighted average 54, warning territory, but the critical check
	// below threshold forces critical.
	reg := check.NewRegistry()
	reg.Register("memory", fixedCheck(90), check.Options{Weight: 2})
	reg.Register("persistence", fixedCheck(30), check.Options{Weight: 3, Critical: true})

	report := NewEvaluator(reg).Evaluate(context.Background())

	if report.OverallScore != 54 {
		t.Errorf("OverallScore = %d, want 54", report.OverallScore)
	}
	if report.Status != check.StatusCritical {
		t.Errorf("Status = %v, want critical", report.Status)
	}
}

func TestEvaluator_WarningBand(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("a", fixedCheck(60), check.Options{})

	report := NewEvaluator(reg).Evaluate(context.Background())

	if report.Status != check.StatusWarning {
		t.Errorf("Status = %v, want warning for score 60", report.Status)
	}
}

func TestEvaluator_CriticalBand(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("a", fixedCheck(40), check.Options{})

	report := NewEvaluator(reg).Evaluate(context.Background())

	if report.Status != check.StatusCritical {
		t.Errorf("Status = %v, want critical for score 40", report.Status)
	}
}

func TestEvaluator_NoChecks(t *testing.T) {
	report := NewEvaluator(check.NewRegistry()).Evaluate(context.Background())

	if report.OverallScore != 0 {
		t.Errorf("OverallScore = %d, want 0", report.OverallScore)
	}
	if report.Status != check.StatusUnknown {
		t.Errorf("Status = %v, want unknown", report.Status)
	}
}

func TestEvaluator_DisabledExcluded(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("on", fixedCheck(100), check.Options{})
	reg.Register("off", fixedCheck(0), check.Options{Disabled: true})

	report := NewEvaluator(reg).Evaluate(context.Background())

	if report.OverallScore != 100 {
		t.Errorf("OverallScore = %d, want 100 (disabled check excluded, not counted)", report.OverallScore)
	}
	if _, ok := report.Outcomes["off"]; ok {
		t.Error("disabled check should produce no outcome")
	}
}

func TestEvaluator_CheckError(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("bad", func(ctx context.Context) (check.Outcome, error) {
		return check.Outcome{}, errors.New("probe exploded")
	}, check.Options{})

	report := NewEvaluator(reg).Evaluate(context.Background())

	out := report.Outcomes["bad"]
	if out.Status != check.StatusError {
		t.Errorf("Status = %v, want error", out.Status)
	}
	if out.Score != 0 {
		t.Errorf("Score = %v, want 0", out.Score)
	}
	if out.Details != "probe exploded" {
		t.Errorf("Details = %q", out.Details)
	}
}

func TestEvaluator_CheckPanic(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("panicky", func(ctx context.Context) (check.Outcome, error) {
		panic("unexpected")
	}, check.Options{})

	report := NewEvaluator(reg).Evaluate(context.Background())

	out := report.Outcomes["panicky"]
	if out.Status != check.StatusError {
		t.Errorf("Status = %v, want error after panic", out.Status)
	}
}

func TestEvaluator_TimeoutIsolation(t *testing.T) {
	// A check that never resolves is failed at its timeout and does
	// not delay its siblings beyond that timeout.
	reg := check.NewRegistry()
	reg.Register("hung", func(ctx context.Context) (check.Outcome, error) {
		time.Sleep(time.Hour)
		return check.Score(100), nil
	}, check.Options{Timeout: 50 * time.Millisecond})
	reg.Register("fast", fixedCheck(100), check.Options{})

	start := time.Now()
	report := NewEvaluator(reg).Evaluate(context.Background())
	elapsed := time.Since(start)

	hung := report.Outcomes["hung"]
	if hung.Status != check.StatusError {
		t.Errorf("hung Status = %v, want error", hung.Status)
	}
	if hung.Details != "timeout" {
		t.Errorf("hung Details = %q, want timeout", hung.Details)
	}
	if fast := report.Outcomes["fast"]; fast.Score != 100 {
		t.Errorf("fast Score = %v, want 100 (undisturbed)", fast.Score)
	}
	if elapsed > 2*time.Second {
		t.Errorf("cycle took %v, want roughly the single 50ms timeout", elapsed)
	}
}

func TestEvaluator_ScoreBounds(t *testing.T) {
	reg := check.NewRegistry()
	reg.Register("over", func(ctx context.Context) (check.Outcome, error) {
		return check.Outcome{Score: 500, Status: check.StatusHealthy}, nil
	}, check.Options{})
	reg.Register("under", func(ctx context.Context) (check.Outcome, error) {
		return check.Outcome{Score: -500, Status: check.StatusCritical}, nil
	}, check.Options{})

	report := NewEvaluator(reg).Evaluate(context.Background())

	if report.OverallScore < 0 || report.OverallScore > 100 {
		t.Errorf("OverallScore = %d, want within [0, 100]", report.OverallScore)
	}
}
