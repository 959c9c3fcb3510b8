package monitor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/openfleet/agentmon/alert"
	"github.com/openfleet/agentmon/check"
	"github.com/openfleet/agentmon/emergency"
	"github.com/openfleet/agentmon/observe"
)

// Config configures the monitor facade.
type Config struct {
	Evaluator EvaluatorConfig
	History   HistoryConfig
	Scheduler SchedulerConfig

	// DegradedCycles is the number of consecutive warning cycles that
	// counts as sustained degradation and engages the coordinator.
	// Default: 3
	DegradedCycles int

	// DisableAutoRespond turns off automatic emergency dispatch from
	// the cycle; emergencies then fire only through HandleEmergency.
	DisableAutoRespond bool
}

// Options wires the monitor's collaborators.
type Options struct {
	Config Config

	// Registry holds the check definitions. A nil registry gets a
	// fresh one seeded with the built-in checks.
	Registry *check.Registry

	// Dispatcher receives threshold-crossing reports. Required.
	Dispatcher *alert.Dispatcher

	// Coordinator handles emergency dispatch. Required.
	Coordinator *emergency.Coordinator

	// Observer supplies telemetry. A nil observer discards.
	Observer observe.Observer

	// Pinger enables the built-in persistence check when set.
	Pinger check.Pinger

	// Breakers enables the built-in circuit-breaker check when set.
	Breakers check.BreakerSummaryFunc
}

// Snapshot is the exposed view of current health: the latest report
// plus monitor state for external query layers.
type Snapshot struct {
	Report
	Running    bool          `json:"running"`
	AlertCount int           `json:"alert_count"`
	Uptime     time.Duration `json:"uptime"`
}

// Monitor owns the control loop: it drives periodic evaluation,
// records history, raises alerts, and engages the emergency
// coordinator on sustained degradation or critical failures. It is an
// explicit instance; callers construct, start, and stop it like any
// other object.
type Monitor struct {
	registry    *check.Registry
	evaluator   *Evaluator
	history     *History
	dispatcher  *alert.Dispatcher
	coordinator *emergency.Coordinator
	scheduler   *Scheduler

	logger  observe.Logger
	metrics observe.Metrics
	tracer  trace.Tracer

	config  Config
	started time.Time

	mu         sync.RWMutex
	lastReport *Report
	warnStreak int
}

// New creates a Monitor. Built-in checks (memory, scheduler-latency,
// cpu, plus persistence and circuit-breakers when their collaborators
// are supplied) are registered on a fresh registry; a caller-provided
// registry is used as-is.
func New(opts Options) (*Monitor, error) {
	if opts.Dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	if opts.Coordinator == nil {
		return nil, ErrMissingCoordinator
	}

	obs := opts.Observer
	if obs == nil {
		obs = observe.NopObserver()
	}

	metrics, err := observe.NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	cfg := opts.Config
	if cfg.DegradedCycles <= 0 {
		cfg.DegradedCycles = 3
	}

	registry := opts.Registry
	if registry == nil {
		registry = check.NewRegistry()
		registerBuiltins(registry, opts.Pinger, opts.Breakers)
	}

	m := &Monitor{
		registry:    registry,
		evaluator:   NewEvaluator(registry, cfg.Evaluator),
		history:     NewHistory(cfg.History),
		dispatcher:  opts.Dispatcher,
		coordinator: opts.Coordinator,
		logger:      obs.Logger(),
		metrics:     metrics,
		tracer:      obs.Tracer(),
		config:      cfg,
		started:     time.Now(),
	}
	m.coordinator.SetMetrics(metrics)
	m.scheduler = NewScheduler(m.cycle, m.logger, cfg.Scheduler)

	return m, nil
}

func registerBuiltins(registry *check.Registry, pinger check.Pinger, breakers check.BreakerSummaryFunc) {
	registry.Register("memory", check.NewMemoryCheck(), check.Options{
		Description: "heap pressure from runtime memory statistics",
	})
	registry.Register("scheduler-latency", check.NewSchedulerLatencyCheck(), check.Options{
		Description: "runtime timer firing delay",
	})
	registry.Register("cpu", check.NewCPUCheck(), check.Options{
		Description: "process CPU consumption",
	})
	if pinger != nil {
		registry.Register("persistence", check.NewPersistenceCheck(pinger), check.Options{
			Critical:    true,
			Description: "persistence backend reachability and latency",
		})
	}
	if breakers != nil {
		registry.Register("circuit-breakers", check.NewBreakerCheck(breakers), check.Options{
			Description: "aggregate circuit-breaker state",
		})
	}
}

// Registry exposes the check registry for runtime registration.
func (m *Monitor) Registry() *check.Registry {
	return m.registry
}

// Start begins the periodic control loop. Idempotent.
func (m *Monitor) Start() {
	m.scheduler.Start()
}

// Stop halts the control loop. Idempotent.
func (m *Monitor) Stop() {
	m.scheduler.Stop()
}

// Running reports whether the control loop is active.
func (m *Monitor) Running() bool {
	return m.scheduler.Running()
}

// cycle is one turn of the control loop: evaluate, record, alert, and
// possibly respond. Failures inside the cycle become data or log
// entries; they never escape to the scheduler.
func (m *Monitor) cycle(ctx context.Context) {
	ctx, span := observe.StartCycleSpan(ctx, m.tracer)
	defer observe.EndSpan(span, nil)

	report := m.evaluator.Evaluate(ctx)
	m.history.Append(report)

	m.mu.Lock()
	m.lastReport = &report
	m.mu.Unlock()

	if a, raised := m.dispatcher.Process(ctx, alert.ReportView{
		ID:               report.ID,
		Status:           report.Status,
		Score:            report.OverallScore,
		CriticalFailures: report.CriticalFailures,
	}); raised {
		m.metrics.RecordAlert(ctx, string(a.Severity))
	}

	m.metrics.RecordCycle(ctx, report.Duration, float64(report.OverallScore), string(report.Status))
	m.logger.Debug(ctx, "cycle complete",
		observe.F("report_id", report.ID),
		observe.F("score", report.OverallScore),
		observe.F("status", string(report.Status)),
		observe.F("duration_ms", float64(report.Duration.Milliseconds())),
	)

	m.respond(ctx, report)
}

// respond engages the coordinator on a critical report immediately, or
// on sustained warning status after DegradedCycles consecutive cycles.
func (m *Monitor) respond(ctx context.Context, report Report) {
	if m.config.DisableAutoRespond {
		return
	}

	m.mu.Lock()
	switch report.Status {
	case check.StatusCritical:
		m.warnStreak = 0
		m.mu.Unlock()
		m.coordinator.Handle(ctx, "health_degradation", emergency.SeverityCritical)
		return
	case check.StatusWarning:
		m.warnStreak++
		sustained := m.warnStreak >= m.config.DegradedCycles
		if sustained {
			m.warnStreak = 0
		}
		m.mu.Unlock()
		if sustained {
			m.coordinator.Handle(ctx, "health_degradation", emergency.SeverityHigh)
		}
		return
	default:
		m.warnStreak = 0
		m.mu.Unlock()
	}
}

// CurrentHealth evaluates a fresh report and returns it with monitor
// state attached. The report is not appended to history; only
// scheduled cycles feed the ledger.
func (m *Monitor) CurrentHealth(ctx context.Context) Snapshot {
	report := m.evaluator.Evaluate(ctx)
	return Snapshot{
		Report:     report,
		Running:    m.Running(),
		AlertCount: m.dispatcher.Count(),
		Uptime:     time.Since(m.started),
	}
}

// LastReport returns the most recent scheduled report, if any cycle
// has completed.
func (m *Monitor) LastReport() (Report, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastReport == nil {
		return Report{}, false
	}
	return *m.lastReport, true
}

// History returns the most recent limit reports (all when limit <= 0).
func (m *Monitor) History(limit int) []Report {
	return m.history.Recent(limit)
}

// Trend classifies score movement over the window.
func (m *Monitor) Trend(window time.Duration) TrendResult {
	return m.history.Trend(window)
}

// HandleEmergency dispatches an explicit emergency signal.
func (m *Monitor) HandleEmergency(ctx context.Context, trigger string, severity string) emergency.Event {
	ctx, span := observe.StartEmergencySpan(ctx, m.tracer, trigger, severity)
	defer observe.EndSpan(span, nil)

	return m.coordinator.Handle(ctx, trigger, emergency.Severity(severity))
}

// EmergencyHistory returns the recorded emergency events.
func (m *Monitor) EmergencyHistory() []emergency.Event {
	return m.coordinator.History()
}

// Uptime reports how long the monitor has existed.
func (m *Monitor) Uptime() time.Duration {
	return time.Since(m.started)
}
