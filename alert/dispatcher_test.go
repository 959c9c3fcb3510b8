package alert

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/openfleet/agentmon/check"
)

// recordingChannel captures delivered alerts.
type recordingChannel struct {
	mu     sync.Mutex
	alerts []Alert
	fail   bool
}

func (c *recordingChannel) Name() string { return "recorder" }

func (c *recordingChannel) Notify(ctx context.Context, a Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("delivery refused")
	}
	c.alerts = append(c.alerts, a)
	return nil
}

func (c *recordingChannel) delivered() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.alerts)
}

func TestDispatcher_Process_Critical(t *testing.T) {
	ch := &recordingChannel{}
	d := NewDispatcher(nil)
	d.AddChannel(ch)

	a, raised := d.Process(context.Background(), ReportView{
		ID:               "r1",
		Status:           check.StatusCritical,
		Score:            30,
		CriticalFailures: 1,
	})

	if !raised {
		t.Fatal("critical report should raise an alert")
	}
	if a.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want critical", a.Severity)
	}
	if a.ReportID != "r1" {
		t.Errorf("ReportID = %q, want r1", a.ReportID)
	}
	if ch.delivered() != 1 {
		t.Errorf("delivered = %d, want 1", ch.delivered())
	}
	if d.Count() != 1 {
		t.Errorf("Count = %d, want 1", d.Count())
	}
}

func TestDispatcher_Process_Warning(t *testing.T) {
	d := NewDispatcher(nil)

	a, raised := d.Process(context.Background(), ReportView{
		ID:     "r2",
		Status: check.StatusWarning,
		Score:  65,
	})

	if !raised {
		t.Fatal("warning report should raise an alert")
	}
	if a.Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", a.Severity)
	}
}

func TestDispatcher_Process_HealthyProducesNothing(t *testing.T) {
	ch := &recordingChannel{}
	d := NewDispatcher(nil)
	d.AddChannel(ch)

	if _, raised := d.Process(context.Background(), ReportView{
		Status: check.StatusHealthy,
		Score:  95,
	}); raised {
		t.Error("healthy report should not raise an alert")
	}
	if d.Count() != 0 {
		t.Errorf("Count = %d, want 0", d.Count())
	}
	if ch.delivered() != 0 {
		t.Errorf("delivered = %d, want 0", ch.delivered())
	}
}

func TestDispatcher_ChannelFailureSwallowed(t *testing.T) {
	failing := &recordingChannel{fail: true}
	working := &recordingChannel{}
	d := NewDispatcher(nil)
	d.AddChannel(failing)
	d.AddChannel(working)

	_, raised := d.Process(context.Background(), ReportView{
		Status: check.StatusCritical,
		Score:  10,
	})

	if !raised {
		t.Fatal("alert should be raised despite channel failure")
	}
	if working.delivered() != 1 {
		t.Errorf("working channel delivered = %d, want 1", working.delivered())
	}
	if d.Count() != 1 {
		t.Errorf("Count = %d, want 1 (stored despite failure)", d.Count())
	}
}

func TestDispatcher_CapEviction(t *testing.T) {
	d := NewDispatcher(nil, DispatcherConfig{MaxAlerts: 5})

	for i := 0; i < 12; i++ {
		d.Process(context.Background(), ReportView{
			ID:     fmt.Sprintf("r%d", i),
			Status: check.StatusWarning,
			Score:  60,
		})
	}

	if d.Count() != 5 {
		t.Fatalf("Count = %d, want exactly 5", d.Count())
	}

	recent := d.Recent(0)
	if recent[0].ReportID != "r7" || recent[4].ReportID != "r11" {
		t.Errorf("window = [%s..%s], want [r7..r11]", recent[0].ReportID, recent[4].ReportID)
	}
}

func TestDispatcher_Send(t *testing.T) {
	ch := &recordingChannel{}
	d := NewDispatcher(nil)
	d.AddChannel(ch)

	if err := d.Send(context.Background(), "critical", "shedding load"); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	recent := d.Recent(1)
	if len(recent) != 1 {
		t.Fatal("Send should store an alert")
	}
	if recent[0].Severity != SeverityCritical {
		t.Errorf("Severity = %v, want critical", recent[0].Severity)
	}
	if recent[0].Message != "shedding load" {
		t.Errorf("Message = %q", recent[0].Message)
	}
	if ch.delivered() != 1 {
		t.Errorf("delivered = %d, want 1", ch.delivered())
	}
}

func TestDispatcher_Send_UnknownSeverity(t *testing.T) {
	d := NewDispatcher(nil)

	d.Send(context.Background(), "whatever", "msg")

	if got := d.Recent(1)[0].Severity; got != SeverityWarning {
		t.Errorf("Severity = %v, want warning fallback", got)
	}
}

func TestDispatcher_Resolve(t *testing.T) {
	d := NewDispatcher(nil)
	a, _ := d.Process(context.Background(), ReportView{Status: check.StatusWarning, Score: 60})

	if !d.Resolve(a.ID) {
		t.Error("Resolve existing = false, want true")
	}
	if !d.Recent(1)[0].Resolved {
		t.Error("alert should be marked resolved")
	}
	if d.Resolve("missing") {
		t.Error("Resolve missing = true, want false")
	}
}

func TestDispatcher_RecentIsCopy(t *testing.T) {
	d := NewDispatcher(nil)
	d.Process(context.Background(), ReportView{Status: check.StatusWarning, Score: 60})

	out := d.Recent(0)
	out[0].Message = "mutated"

	if d.Recent(0)[0].Message == "mutated" {
		t.Error("Recent should return a defensive copy")
	}
}
