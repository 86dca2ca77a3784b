package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordInit mock
func (me *MetricsEngineMock) RecordInit(network string, outcome InitOutcome) {
	me.Called(network, outcome)
}

// RecordInitTime mock
func (me *MetricsEngineMock) RecordInitTime(network string, length time.Duration) {
	me.Called(network, length)
}

// RecordLoad mock
func (me *MetricsEngineMock) RecordLoad(labels LoadLabels) {
	me.Called(labels)
}

// RecordLoadTime mock
func (me *MetricsEngineMock) RecordLoadTime(network string, length time.Duration) {
	me.Called(network, length)
}

// RecordShow mock
func (me *MetricsEngineMock) RecordShow(network string, outcome ShowOutcome) {
	me.Called(network, outcome)
}

// RecordDispatch mock
func (me *MetricsEngineMock) RecordDispatch(labels DispatchLabels) {
	me.Called(labels)
}

// RecordDisplaced mock
func (me *MetricsEngineMock) RecordDisplaced(network string) {
	me.Called(network)
}

// RecordPendingRequests mock
func (me *MetricsEngineMock) RecordPendingRequests(network string, pending int) {
	me.Called(network, pending)
}

// RecordPoll mock
func (me *MetricsEngineMock) RecordPoll(network string, outcome PollOutcome) {
	me.Called(network, outcome)
}
