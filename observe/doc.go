// Package observe provides observability primitives for the health
// monitor: a structured JSON logger, OpenTelemetry metrics for the
// control loop, and spans around evaluation cycles and emergency
// invocations. It is pure instrumentation; logging and metrics are
// subscribers of monitor events, never control-flow dependencies.
package observe
