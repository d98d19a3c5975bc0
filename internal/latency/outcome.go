package latency

import "stealthspanner/internal/extract"

// Status classifies the resolved result of all attempts against one target.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusFailed     Status = "failed"
	StatusDNSFailure Status = "dns_failure"
	StatusTimeout    Status = "timeout"
)

// statusRank orders status buckets for ranking: successes first, then
// failures grouped by kind.
func statusRank(s Status) int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusFailed:
		return 1
	case StatusDNSFailure:
		return 2
	case StatusTimeout:
		return 3
	default:
		return 4
	}
}

// Label returns the human-readable form of a status.
func (s Status) Label() string {
	switch s {
	case StatusSuccess:
		return "Success"
	case StatusFailed:
		return "Failed"
	case StatusDNSFailure:
		return "DNS Failure"
	case StatusTimeout:
		return "Timeout"
	default:
		return string(s)
	}
}

// Jitter holds dispersion metrics over the successful attempts' round-trip
// times. Only meaningful with at least two successful attempts.
type Jitter struct {
	StdDevMS  float64
	MeanDevMS float64
	RangeMS   float64
}

// Outcome is the per-target probe result. AvgLatencyMS is the arithmetic
// mean of only the successful attempts and is nil unless Status is Success.
type Outcome struct {
	Target extract.Target
	Status Status

	AvgLatencyMS  *float64
	Jitter        *Jitter
	PacketLossPct float64

	Attempts  int
	Succeeded int
}
