package monitor

import (
	"sync"
	"time"
)

// Trend classifications returned by History.Trend.
const (
	TrendImproving        = "improving"
	TrendDegrading        = "degrading"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// trendMargin is the score delta a window must move before it counts
// as improving or degrading.
const trendMargin = 5

// TrendResult summarizes score movement over a time window. It is a
// deliberate two-point heuristic comparing the first and last report
// in the window, not a regression.
type TrendResult struct {
	// Trend is improving, degrading, stable, or insufficient_data.
	Trend string `json:"trend"`

	// Samples is the number of reports in the window.
	Samples int `json:"samples"`

	// Average, Min, and Max summarize scores over the window. Zero
	// when there is insufficient data.
	Average float64 `json:"average,omitempty"`
	Min     int     `json:"min,omitempty"`
	Max     int     `json:"max,omitempty"`

	// First and Last are the endpoint scores the classification used.
	First int `json:"first,omitempty"`
	Last  int `json:"last,omitempty"`
}

// HistoryConfig configures the report history.
type HistoryConfig struct {
	// MaxSize caps the ledger; the oldest report is evicted first.
	// Default: 100
	MaxSize int
}

// History is a bounded FIFO ledger of health reports. It has a single
// writer (the scheduler) and many concurrent readers; reads return
// defensive copies, never the live backing slice.
type History struct {
	mu      sync.RWMutex
	reports []Report
	max     int
}

// NewHistory creates an empty report history.
func NewHistory(config ...HistoryConfig) *History {
	maxSize := 100
	if len(config) > 0 && config[0].MaxSize > 0 {
		maxSize = config[0].MaxSize
	}

	return &History{
		reports: make([]Report, 0, maxSize),
		max:     maxSize,
	}
}

// Append records a report, evicting the oldest when over capacity.
func (h *History) Append(r Report) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.reports = append(h.reports, r)
	if len(h.reports) > h.max {
		h.reports = h.reports[len(h.reports)-h.max:]
	}
}

// Recent returns the most recent limit reports (all when limit <= 0),
// oldest first. The returned slice is owned by the caller.
func (h *History) Recent(limit int) []Report {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := len(h.reports)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]Report, limit)
	copy(out, h.reports[n-limit:])
	return out
}

// Len returns the number of stored reports.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.reports)
}

// Trend classifies score movement over reports newer than now-window.
// Fewer than two reports in the window yields insufficient_data.
func (h *History) Trend(window time.Duration) TrendResult {
	cutoff := time.Now().Add(-window)

	h.mu.RLock()
	inWindow := make([]Report, 0, len(h.reports))
	for _, r := range h.reports {
		if r.Timestamp.After(cutoff) {
			inWindow = append(inWindow, r)
		}
	}
	h.mu.RUnlock()

	if len(inWindow) < 2 {
		return TrendResult{Trend: TrendInsufficientData, Samples: len(inWindow)}
	}

	first := inWindow[0].OverallScore
	last := inWindow[len(inWindow)-1].OverallScore

	sum := 0
	min, max := inWindow[0].OverallScore, inWindow[0].OverallScore
	for _, r := range inWindow {
		sum += r.OverallScore
		if r.OverallScore < min {
			min = r.OverallScore
		}
		if r.OverallScore > max {
			max = r.OverallScore
		}
	}

	trend := TrendStable
	switch {
	case last > first+trendMargin:
		trend = TrendImproving
	case last < first-trendMargin:
		trend = TrendDegrading
	}

	return TrendResult{
		Trend:   trend,
		Samples: len(inWindow),
		Average: float64(sum) / float64(len(inWindow)),
		Min:     min,
		Max:     max,
		First:   first,
		Last:    last,
	}
}
