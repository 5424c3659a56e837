package paging

import "time"

// Outcome labels a finished request.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeError  Outcome = "error"
	OutcomeCancel Outcome = "canceled"
)

// Collector receives one observation per Paginate call.
type Collector interface {
	Observe(backend string, outcome Outcome, page int, duration time.Duration)
	ObservePinned(backend string, found bool)
}

// NoOpCollector discards observations.
type NoOpCollector struct{}

func (NoOpCollector) Observe(string, Outcome, int, time.Duration) {}

func (NoOpCollector) ObservePinned(string, bool) {}
