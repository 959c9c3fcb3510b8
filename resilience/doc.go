// Package resilience provides per-operation timeout enforcement for
// delegated work: health probes and emergency remediation actions are
// raced against a hard deadline so a hung collaborator never stalls
// the control loop.
package resilience
