package emergency

import "context"

// The controllers are external collaborators: the coordinator decides
// what to invoke and with what parameters; their effects are out of
// scope. A nil controller fails the corresponding action with
// ErrNoController rather than panicking.

// LoadController sheds a percentage of incoming work.
type LoadController interface {
	Shed(ctx context.Context, percent float64) error
}

// RateLimiter reduces the admission rate.
type RateLimiter interface {
	Throttle(ctx context.Context, rate float64) error
}

// FailoverController redistributes work away from unhealthy components.
type FailoverController interface {
	Failover(ctx context.Context, strategy string) error
}

// ScaleController requests additional capacity.
type ScaleController interface {
	ScaleUp(ctx context.Context, count int, urgency string) error
}

// AlertSink receives alert actions for fan-out to notification
// channels. The alert dispatcher satisfies this.
type AlertSink interface {
	Send(ctx context.Context, severity, message string) error
}

// Controllers bundles the injected remediation collaborators.
type Controllers struct {
	Load     LoadController
	Rate     RateLimiter
	Failover FailoverController
	Scale    ScaleController
	Alerts   AlertSink
}
