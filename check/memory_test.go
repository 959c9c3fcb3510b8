package check

import (
	"context"
	"testing"
)

func TestMemoryCheck(t *testing.T) {
	fn := NewMemoryCheck()

	out, err := fn(context.Background())
	if err != nil {
		t.Fatalf("memory check error: %v", err)
	}

	switch out.Score {
	case 100, 75, 50, 10:
	default:
		t.Errorf("Score = %v, want one of the tier scores", out.Score)
	}
	if out.Details == "" {
		t.Error("Details should describe heap usage")
	}
	if _, ok := out.Metrics["heap_alloc_bytes"]; !ok {
		t.Error("Metrics missing heap_alloc_bytes")
	}
}

func TestMemoryCheck_CancelledContext(t *testing.T) {
	fn := NewMemoryCheck()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := fn(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestMemoryCheck_InvalidConfigFallsBack(t *testing.T) {
	// Out-of-range thresholds take defaults; the check still runs.
	fn := NewMemoryCheck(MemoryConfig{WarningRatio: 2, HighRatio: -1, CriticalRatio: 0})

	out, err := fn(context.Background())
	if err != nil {
		t.Fatalf("memory check error: %v", err)
	}
	if out.Status == "" {
		t.Error("Status should be set")
	}
}
