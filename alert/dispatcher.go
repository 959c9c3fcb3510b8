package alert

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/openfleet/agentmon/check"
	"github.com/openfleet/agentmon/observe"
)

// ReportView is the subset of a health report the dispatcher needs to
// decide whether an alert is warranted.
type ReportView struct {
	ID               string
	Status           check.Status
	Score            int
	CriticalFailures int
}

// DispatcherConfig configures the alert dispatcher.
type DispatcherConfig struct {
	// MaxAlerts caps the alert log; the oldest alert is evicted first.
	// Default: 100
	MaxAlerts int
}

// Dispatcher converts threshold-crossing reports into alerts, stores
// them in a capped FIFO log, and fans them out to the configured
// channels. Channel failures are logged and swallowed; a broken
// notification path never fails processing.
type Dispatcher struct {
	config DispatcherConfig
	logger observe.Logger

	mu       sync.RWMutex
	alerts   []Alert
	channels []Channel
}

// NewDispatcher creates a new alert dispatcher.
func NewDispatcher(logger observe.Logger, config ...DispatcherConfig) *Dispatcher {
	cfg := DispatcherConfig{MaxAlerts: 100}
	if len(config) > 0 && config[0].MaxAlerts > 0 {
		cfg.MaxAlerts = config[0].MaxAlerts
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	return &Dispatcher{
		config: cfg,
		logger: logger,
		alerts: make([]Alert, 0),
	}
}

// AddChannel registers a notification channel.
func (d *Dispatcher) AddChannel(ch Channel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channels = append(d.channels, ch)
}

// Process raises an alert for a warning or critical report. Healthy
// reports produce nothing. It returns the created alert and whether
// one was raised.
func (d *Dispatcher) Process(ctx context.Context, r ReportView) (Alert, bool) {
	var severity Severity
	switch r.Status {
	case check.StatusCritical:
		severity = SeverityCritical
	case check.StatusWarning:
		severity = SeverityWarning
	default:
		return Alert{}, false
	}

	msg := fmt.Sprintf("overall health %s (score %d)", r.Status, r.Score)
	if r.CriticalFailures > 0 {
		msg = fmt.Sprintf("%s, %d critical check(s) failing", msg, r.CriticalFailures)
	}

	a := Alert{
		ID:        uuid.NewString(),
		Severity:  severity,
		Timestamp: time.Now(),
		Message:   msg,
		ReportID:  r.ID,
	}

	d.store(a)
	d.fanOut(ctx, a)
	return a, true
}

// Send raises an alert that is not tied to a health report, such as an
// emergency protocol's alert action. Unknown severities are treated as
// warning. It satisfies the coordinator's alert sink contract.
func (d *Dispatcher) Send(ctx context.Context, severity, message string) error {
	sev := SeverityWarning
	if Severity(severity) == SeverityCritical {
		sev = SeverityCritical
	}

	a := Alert{
		ID:        uuid.NewString(),
		Severity:  sev,
		Timestamp: time.Now(),
		Message:   message,
	}

	d.store(a)
	d.fanOut(ctx, a)
	return nil
}

// Resolve marks an alert resolved, reporting whether it was found.
func (d *Dispatcher) Resolve(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.alerts {
		if d.alerts[i].ID == id {
			d.alerts[i].Resolved = true
			return true
		}
	}
	return false
}

// Recent returns the most recent limit alerts (all when limit <= 0),
// oldest first. The returned slice is owned by the caller.
func (d *Dispatcher) Recent(limit int) []Alert {
	d.mu.RLock()
	defer d.mu.RUnlock()

	n := len(d.alerts)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Alert, limit)
	copy(out, d.alerts[n-limit:])
	return out
}

// Count returns the number of stored alerts.
func (d *Dispatcher) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.alerts)
}

func (d *Dispatcher) store(a Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.alerts = append(d.alerts, a)
	if len(d.alerts) > d.config.MaxAlerts {
		d.alerts = d.alerts[len(d.alerts)-d.config.MaxAlerts:]
	}
}

// fanOut delivers the alert to every channel, at most once per channel.
func (d *Dispatcher) fanOut(ctx context.Context, a Alert) {
	d.mu.RLock()
	channels := make([]Channel, len(d.channels))
	copy(channels, d.channels)
	d.mu.RUnlock()

	for _, ch := range channels {
		if err := ch.Notify(ctx, a); err != nil {
			d.logger.Warn(ctx, "alert delivery failed",
				observe.F("channel", ch.Name()),
				observe.F("alert_id", a.ID),
				observe.F("error", err.Error()),
			)
		}
	}
}
