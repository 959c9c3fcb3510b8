package emergency

import (
	"sync"
	"time"
)

// Severity ranks an emergency condition.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// NormalizeSeverity maps arbitrary input onto a known severity,
// defaulting to low.
func NormalizeSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return Severity(s)
	}
	return SeverityLow
}

// ActionType names a remediation action kind.
type ActionType string

const (
	// ActionLoadShed requests rejection of a percentage of incoming work.
	ActionLoadShed ActionType = "load_shed"
	// ActionThrottle requests a reduced admission rate.
	ActionThrottle ActionType = "throttle"
	// ActionFailover requests redistribution away from unhealthy components.
	ActionFailover ActionType = "failover"
	// ActionScaleUp requests additional capacity.
	ActionScaleUp ActionType = "scale_up"
	// ActionAlert routes a message through the alert dispatcher.
	ActionAlert ActionType = "alert"
)

// Action is one remediation step of a protocol. Actions are immutable
// configuration; parameters are interpreted by the executor when the
// action runs.
type Action struct {
	// Type selects the remediation.
	Type ActionType `json:"type"`

	// Params carries type-specific parameters: percentage (load_shed),
	// rate (throttle), strategy (failover), count and urgency
	// (scale_up), message and recipients (alert).
	Params map[string]any `json:"params,omitempty"`

	// Timeout bounds the action's execution. Zero takes the
	// coordinator's default.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Protocol is a named, ordered set of remediation actions tied to a
// severity. Protocols are static configuration loaded once at startup.
type Protocol struct {
	// Name is the trigger scenario this protocol answers.
	Name string `json:"name"`

	// Severity is the protocol's nominal severity.
	Severity Severity `json:"severity"`

	// TriggerConditions documents what activates this protocol.
	TriggerConditions []string `json:"trigger_conditions,omitempty"`

	// Actions run concurrently when the protocol fires.
	Actions []Action `json:"actions"`
}

// Catalog maps scenario names to protocols.
type Catalog struct {
	mu        sync.RWMutex
	protocols map[string]Protocol
}

// NewCatalog creates an empty protocol catalog.
func NewCatalog() *Catalog {
	return &Catalog{protocols: make(map[string]Protocol)}
}

// Register stores a protocol under its name, overwriting any prior
// protocol with the same name.
func (c *Catalog) Register(p Protocol) error {
	if p.Name == "" {
		return ErrInvalidProtocol
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.protocols[p.Name] = p
	return nil
}

// Get returns the protocol registered for a scenario name.
func (c *Catalog) Get(name string) (Protocol, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.protocols[name]
	return p, ok
}

// Names returns all registered scenario names.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.protocols))
	for name := range c.protocols {
		names = append(names, name)
	}
	return names
}

// DefaultCatalog returns a catalog seeded with the built-in scenarios.
func DefaultCatalog() *Catalog {
	c := NewCatalog()

	c.Register(Protocol{
		Name:              "high_load",
		Severity:          SeverityHigh,
		TriggerConditions: []string{"sustained load above capacity"},
		Actions: []Action{
			{Type: ActionThrottle, Params: map[string]any{"rate": 100.0}},
			{Type: ActionLoadShed, Params: map[string]any{"percentage": 20.0}},
			{Type: ActionScaleUp, Params: map[string]any{"count": 1, "urgency": "normal"}},
		},
	})

	c.Register(Protocol{
		Name:              "persistence_failure",
		Severity:          SeverityCritical,
		TriggerConditions: []string{"persistence check critical"},
		Actions: []Action{
			{Type: ActionFailover, Params: map[string]any{"strategy": "redistribute"}},
			{Type: ActionAlert, Params: map[string]any{"message": "persistence backend unreachable"}},
		},
	})

	c.Register(Protocol{
		Name:              "agent_failures",
		Severity:          SeverityHigh,
		TriggerConditions: []string{"multiple agents unresponsive"},
		Actions: []Action{
			{Type: ActionFailover, Params: map[string]any{"strategy": "redistribute"}},
			{Type: ActionScaleUp, Params: map[string]any{"count": 2, "urgency": "high"}},
			{Type: ActionAlert, Params: map[string]any{"message": "agent failures detected"}},
		},
	})

	c.Register(Protocol{
		Name:              "memory_pressure",
		Severity:          SeverityMedium,
		TriggerConditions: []string{"memory check below warning tier"},
		Actions: []Action{
			{Type: ActionLoadShed, Params: map[string]any{"percentage": 30.0}},
			{Type: ActionThrottle, Params: map[string]any{"rate": 50.0}},
		},
	})

	return c
}

// DefaultProtocolTable returns the severity-indexed fallback actions
// used when a trigger has no cataloged protocol. The table is total
// over all severities; values are overridable defaults, not contract.
func DefaultProtocolTable() map[Severity][]Action {
	return map[Severity][]Action{
		SeverityCritical: {
			{Type: ActionLoadShed, Params: map[string]any{"percentage": 30.0}},
			{Type: ActionFailover, Params: map[string]any{"strategy": "redistribute"}},
			{Type: ActionAlert, Params: map[string]any{"message": "critical condition, default protocol engaged"}},
		},
		SeverityHigh: {
			{Type: ActionThrottle, Params: map[string]any{"rate": 50.0}},
			{Type: ActionAlert, Params: map[string]any{"message": "high-severity condition, default protocol engaged"}},
		},
		SeverityMedium: {
			{Type: ActionThrottle, Params: map[string]any{"rate": 80.0}},
		},
		// Low severity logs only; no remediation.
		SeverityLow: {},
	}
}
