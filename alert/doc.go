// Package alert converts threshold-crossing health reports into
// alerts, keeps a capped FIFO alert log, and fans alerts out to
// injected notification channels on a best-effort basis.
package alert
