package alert

import (
	"context"
	"time"
)

// Severity classifies an alert.
type Severity string

const (
	// SeverityWarning marks a degraded-but-functional condition.
	SeverityWarning Severity = "warning"
	// SeverityCritical marks a failing condition requiring attention.
	SeverityCritical Severity = "critical"
)

// Alert is one threshold-crossing notification. Alerts are append-only
// records; only the Resolved flag changes after creation.
type Alert struct {
	// ID uniquely identifies the alert.
	ID string `json:"id"`

	// Severity is warning or critical.
	Severity Severity `json:"severity"`

	// Timestamp is when the alert was raised.
	Timestamp time.Time `json:"timestamp"`

	// Message is the human-readable description.
	Message string `json:"message"`

	// ReportID references the health report that triggered the alert,
	// if any.
	ReportID string `json:"report_id,omitempty"`

	// Resolved marks the alert as acknowledged.
	Resolved bool `json:"resolved"`
}

// Channel delivers alerts to an external destination (console, webhook,
// email). Delivery is best-effort and at-most-once per alert; any retry
// policy belongs to the channel, not the dispatcher.
type Channel interface {
	// Name identifies the channel in logs.
	Name() string

	// Notify delivers one alert.
	Notify(ctx context.Context, a Alert) error
}

// ChannelFunc is an adapter to allow ordinary functions to be used as
// Channels.
type ChannelFunc struct {
	name string
	fn   func(ctx context.Context, a Alert) error
}

// NewChannelFunc creates a new ChannelFunc.
func NewChannelFunc(name string, fn func(ctx context.Context, a Alert) error) *ChannelFunc {
	return &ChannelFunc{name: name, fn: fn}
}

// Name identifies the channel.
func (c *ChannelFunc) Name() string {
	return c.name
}

// Notify delivers the alert.
func (c *ChannelFunc) Notify(ctx context.Context, a Alert) error {
	return c.fn(ctx, a)
}
