package check

import (
	"context"
	"sync"
	"time"
)

// Definition describes a registered health check: the probe function
// plus the weight, timeout, and flags that govern how its outcome is
// aggregated.
type Definition struct {
	// Name uniquely identifies the check. Re-registering a name
	// overwrites the prior definition.
	Name string `json:"name"`

	// Weight is the check's share of the weighted average. Must be
	// positive; defaults to 1.
	Weight float64 `json:"weight"`

	// Timeout is the hard upper bound on one run of the check.
	// Defaults to 5 seconds.
	Timeout time.Duration `json:"timeout"`

	// Critical marks a check whose sub-threshold score forces the
	// overall status to critical regardless of the weighted average.
	Critical bool `json:"critical"`

	// Enabled controls whether the check participates in evaluation.
	// Disabled checks are excluded entirely, not counted as healthy.
	Enabled bool `json:"enabled"`

	// Description explains what the check probes.
	Description string `json:"description,omitempty"`

	fn Func
}

// Run invokes the check function. The evaluator is responsible for
// racing this against the definition's timeout.
func (d Definition) Run(ctx context.Context) (Outcome, error) {
	return d.fn(ctx)
}

// Options configures a check at registration time. Zero values take
// the documented defaults.
type Options struct {
	// Weight defaults to 1.
	Weight float64

	// Timeout defaults to 5 seconds.
	Timeout time.Duration

	// Critical defaults to false.
	Critical bool

	// Disabled registers the check without enabling it.
	Disabled bool

	// Description is optional.
	Description string
}

// Registry holds named check definitions. It is safe for concurrent
// use, including mutation while an evaluation is in flight: readers
// always get a snapshot, never the live map.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{
		defs:  make(map[string]Definition),
		order: make([]string, 0),
	}
}

// Register stores a check definition, overwriting any prior definition
// with the same name (registration order position is preserved on
// overwrite). It returns the stored definition with defaults applied.
func (r *Registry) Register(name string, fn Func, opts Options) Definition {
	if opts.Weight <= 0 {
		opts.Weight = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	def := Definition{
		Name:        name,
		Weight:      opts.Weight,
		Timeout:     opts.Timeout,
		Critical:    opts.Critical,
		Enabled:     !opts.Disabled,
		Description: opts.Description,
		fn:          fn,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[name]; !exists {
		r.order = append(r.order, name)
	}
	r.defs[name] = def
	return def
}

// Unregister removes a check definition, reporting whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[name]; !exists {
		return false
	}
	delete(r.defs, name)

	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// SetEnabled flips a check's enabled flag, reporting whether the check
// exists. The change is observed by the next evaluation cycle; an
// in-flight cycle keeps the snapshot it started with.
func (r *Registry) SetEnabled(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, exists := r.defs[name]
	if !exists {
		return false
	}
	def.Enabled = enabled
	r.defs[name] = def
	return true
}

// Get returns a named definition.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	return def, ok
}

// List returns a snapshot of all definitions in registration order.
// The returned slice is owned by the caller.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.defs[name])
	}
	return defs
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}
