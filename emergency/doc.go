// Package emergency implements catalog-driven emergency response: a
// static map from trigger scenarios to ordered remediation actions, a
// severity-indexed fallback table, and a coordinator that executes a
// protocol's actions concurrently with per-action timeouts and
// isolated failure handling.
//
// Remediation effects are delegated to injected controllers; the
// coordinator only decides what to invoke and with what parameters,
// then records the outcome in a capped append-only event history.
package emergency
