package emergency

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openfleet/agentmon/observe"
	"github.com/openfleet/agentmon/resilience"
)

// Event records one emergency invocation. Events are append-only;
// Attempted == Succeeded + Failed always holds.
type Event struct {
	// ID uniquely identifies the invocation.
	ID string `json:"id"`

	// Timestamp is when the invocation completed.
	Timestamp time.Time `json:"timestamp"`

	// Trigger is the scenario name the caller passed.
	Trigger string `json:"trigger"`

	// Severity is the normalized severity.
	Severity Severity `json:"severity"`

	// Attempted is the number of actions executed.
	Attempted int `json:"attempted"`

	// Succeeded is the number of actions that completed without error.
	Succeeded int `json:"succeeded"`

	// Failed is the number of actions that errored or timed out.
	Failed int `json:"failed"`
}

// CoordinatorConfig configures the emergency coordinator.
type CoordinatorConfig struct {
	// MaxEvents caps the event history; oldest first eviction.
	// Default: 1000
	MaxEvents int

	// ActionTimeout bounds actions that carry no timeout of their own.
	// Default: 10 seconds
	ActionTimeout time.Duration

	// Defaults is the severity-indexed fallback table used when a
	// trigger has no cataloged protocol. Default: DefaultProtocolTable().
	Defaults map[Severity][]Action
}

// Coordinator selects and executes emergency protocols. Actions run
// concurrently, each under its own timeout; a failing action is logged
// and isolated, never cancelling its siblings or the coordinator.
// Invocations are independent; the only cross-invocation state is the
// append-only event history.
type Coordinator struct {
	config      CoordinatorConfig
	catalog     *Catalog
	controllers Controllers
	logger      observe.Logger
	metrics     observe.Metrics

	mu        sync.RWMutex
	events    []Event
	listeners []func(Event)
}

// NewCoordinator creates a new emergency coordinator. A nil catalog
// gets the default catalog; a nil logger discards.
func NewCoordinator(catalog *Catalog, controllers Controllers, logger observe.Logger, config ...CoordinatorConfig) *Coordinator {
	cfg := CoordinatorConfig{
		MaxEvents:     1000,
		ActionTimeout: 10 * time.Second,
	}
	if len(config) > 0 {
		c := config[0]
		if c.MaxEvents > 0 {
			cfg.MaxEvents = c.MaxEvents
		}
		if c.ActionTimeout > 0 {
			cfg.ActionTimeout = c.ActionTimeout
		}
		cfg.Defaults = c.Defaults
	}
	if cfg.Defaults == nil {
		cfg.Defaults = DefaultProtocolTable()
	}
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	return &Coordinator{
		config:      cfg,
		catalog:     catalog,
		controllers: controllers,
		logger:      logger,
		metrics:     observe.NopMetrics(),
		events:      make([]Event, 0),
	}
}

// SetMetrics wires a metrics recorder. Recording is best-effort.
func (c *Coordinator) SetMetrics(m observe.Metrics) {
	if m != nil {
		c.metrics = m
	}
}

// OnActivated registers a listener invoked after each emergency is
// recorded. Listeners observe; they never participate in control flow.
func (c *Coordinator) OnActivated(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Handle selects a protocol for the trigger (cataloged, or the
// severity fallback), executes its actions concurrently with isolated
// failure handling, records an Event, and notifies listeners.
func (c *Coordinator) Handle(ctx context.Context, trigger string, severity Severity) Event {
	severity = NormalizeSeverity(string(severity))

	actions, cataloged := c.selectActions(trigger, severity)
	c.logger.Info(ctx, "emergency activated",
		observe.F("trigger", trigger),
		observe.F("severity", string(severity)),
		observe.F("cataloged", cataloged),
		observe.F("actions", len(actions)),
	)

	// Settle-all join, never fail-fast.
	var mu sync.Mutex
	succeeded, failed := 0, 0

	var g errgroup.Group
	for _, a := range actions {
		a := a
		g.Go(func() error {
			err := c.runAction(ctx, a)

			mu.Lock()
			if err != nil {
				failed++
			} else {
				succeeded++
			}
			mu.Unlock()

			if err != nil {
				c.logger.Warn(ctx, "emergency action failed",
					observe.F("trigger", trigger),
					observe.F("action", string(a.Type)),
					observe.F("error", err.Error()),
				)
				return fmt.Errorf("%s: %w", a.Type, err)
			}
			return nil
		})
	}
	// The group error is the first failure; individual failures were
	// already counted and logged above.
	_ = g.Wait()

	event := Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Trigger:   trigger,
		Severity:  severity,
		Attempted: len(actions),
		Succeeded: succeeded,
		Failed:    failed,
	}
	c.record(event)
	c.metrics.RecordEmergency(ctx, trigger, string(severity), failed)

	c.notify(event)
	return event
}

// History returns a copy of the recorded events, oldest first.
func (c *Coordinator) History() []Event {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Coordinator) selectActions(trigger string, severity Severity) ([]Action, bool) {
	if p, ok := c.catalog.Get(trigger); ok {
		return p.Actions, true
	}
	return c.config.Defaults[severity], false
}

func (c *Coordinator) runAction(ctx context.Context, a Action) error {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = c.config.ActionTimeout
	}

	return resilience.ExecuteWithTimeout(ctx, timeout, func(ctx context.Context) error {
		return c.dispatch(ctx, a)
	})
}

func (c *Coordinator) dispatch(ctx context.Context, a Action) error {
	switch a.Type {
	case ActionLoadShed:
		if c.controllers.Load == nil {
			return ErrNoController
		}
		return c.controllers.Load.Shed(ctx, floatParam(a.Params, "percentage", 10))

	case ActionThrottle:
		if c.controllers.Rate == nil {
			return ErrNoController
		}
		return c.controllers.Rate.Throttle(ctx, floatParam(a.Params, "rate", 100))

	case ActionFailover:
		if c.controllers.Failover == nil {
			return ErrNoController
		}
		return c.controllers.Failover.Failover(ctx, stringParam(a.Params, "strategy", "redistribute"))

	case ActionScaleUp:
		if c.controllers.Scale == nil {
			return ErrNoController
		}
		count := int(floatParam(a.Params, "count", 1))
		return c.controllers.Scale.ScaleUp(ctx, count, stringParam(a.Params, "urgency", "normal"))

	case ActionAlert:
		if c.controllers.Alerts == nil {
			return ErrNoController
		}
		msg := stringParam(a.Params, "message", "emergency protocol activated")
		return c.controllers.Alerts.Send(ctx, string(SeverityCritical), msg)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}

func (c *Coordinator) record(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)
	if len(c.events) > c.config.MaxEvents {
		c.events = c.events[len(c.events)-c.config.MaxEvents:]
	}
}

func (c *Coordinator) notify(e Event) {
	c.mu.RLock()
	listeners := make([]func(Event), len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// floatParam reads a numeric parameter, accepting the types JSON
// decoding and literal construction produce.
func floatParam(params map[string]any, key string, fallback float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return fallback
	}
}

func stringParam(params map[string]any, key, fallback string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
