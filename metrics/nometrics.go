package metrics

import "time"

// NilMetricsEngine implements MetricsEngine and discards everything. Components default to it
// when no engine is injected.
type NilMetricsEngine struct{}

func (NilMetricsEngine) RecordInit(network string, outcome InitOutcome)      {}
func (NilMetricsEngine) RecordInitTime(network string, length time.Duration) {}
func (NilMetricsEngine) RecordLoad(labels LoadLabels)                        {}
func (NilMetricsEngine) RecordLoadTime(network string, length time.Duration) {}
func (NilMetricsEngine) RecordShow(network string, outcome ShowOutcome)      {}
func (NilMetricsEngine) RecordDispatch(labels DispatchLabels)                {}
func (NilMetricsEngine) RecordDisplaced(network string)                      {}
func (NilMetricsEngine) RecordPendingRequests(network string, pending int)   {}
func (NilMetricsEngine) RecordPoll(network string, outcome PollOutcome)      {}

// OrNil returns m, or a NilMetricsEngine when m is nil.
func OrNil(m MetricsEngine) MetricsEngine {
	if m == nil {
		return NilMetricsEngine{}
	}
	return m
}
