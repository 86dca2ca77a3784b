package metrics

import (
	"time"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/events"
)

// InitOutcome is the result of one network SDK initialization attempt.
type InitOutcome string

const (
	InitSuccess InitOutcome = "success"
	InitFailure InitOutcome = "failure"
	InitTimeout InitOutcome = "timeout"
)

func InitOutcomes() []InitOutcome {
	return []InitOutcome{InitSuccess, InitFailure, InitTimeout}
}

// LoadOutcome is the terminal result of one load request.
type LoadOutcome string

const (
	LoadSuccess LoadOutcome = "loaded"
	LoadFailure LoadOutcome = "failed"
	// LoadDropped counts requests discarded from a waiting list after a failed initialization.
	LoadDropped LoadOutcome = "dropped"
)

func LoadOutcomes() []LoadOutcome {
	return []LoadOutcome{LoadSuccess, LoadFailure, LoadDropped}
}

// ShowOutcome is the result of presenting a fullscreen ad.
type ShowOutcome string

const (
	ShowSuccess ShowOutcome = "shown"
	ShowFailure ShowOutcome = "failed"
)

// PollOutcome is how a readiness poll ended.
type PollOutcome string

const (
	PollReady     PollOutcome = "ready"
	PollTimeout   PollOutcome = "timeout"
	PollCancelled PollOutcome = "cancelled"
)

func PollOutcomes() []PollOutcome {
	return []PollOutcome{PollReady, PollTimeout, PollCancelled}
}

// LoadLabels defines the labels attached to load metrics.
type LoadLabels struct {
	Network string
	Format  string
	Outcome LoadOutcome
	// Code is only meaningful when Outcome is LoadFailure.
	Code errortypes.ErrorCode
}

// DispatchLabels defines the labels attached to router dispatch metrics.
type DispatchLabels struct {
	Network   string
	Kind      events.Kind
	Delivered bool
}

// MetricsEngine is a generic interface to record adapter metrics into the desired backend.
// The first three letters of the method names are expected to be "Record" so that mocks stay simple.
type MetricsEngine interface {
	RecordInit(network string, outcome InitOutcome)
	RecordInitTime(network string, length time.Duration)
	RecordLoad(labels LoadLabels)
	RecordLoadTime(network string, length time.Duration)
	RecordShow(network string, outcome ShowOutcome)
	RecordDispatch(labels DispatchLabels)
	RecordDisplaced(network string)
	RecordPendingRequests(network string, pending int)
	RecordPoll(network string, outcome PollOutcome)
}
