// Package check defines health check primitives for the monitoring
// control loop: weighted, possibly-critical check definitions, the
// registry that owns them, and the normalized Outcome every check run
// produces.
//
// A check is a Func returning a partial Outcome; Normalize fills in
// defaults at the registry boundary so downstream code never branches
// on result shape. Built-in checks cover heap pressure, runtime
// scheduler latency, process CPU consumption, persistence reachability,
// and an optional circuit-breaker summary.
//
//	reg := check.NewRegistry()
//	reg.Register("memory", check.NewMemoryCheck(), check.Options{})
//	reg.Register("persistence", check.NewPersistenceCheck(pinger), check.Options{
//	    Weight:   3,
//	    Critical: true,
//	})
//
// The registry tolerates mutation while an evaluation is in flight:
// List returns a snapshot, so a running cycle keeps the definitions it
// started with.
package check
