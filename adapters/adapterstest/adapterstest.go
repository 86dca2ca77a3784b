// Package adapterstest has helpers shared by the network adapter tests.
package adapterstest

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/mediation/mediationtest"
	"github.com/prebid/mediation-adapters/sdksim"
)

// NewConfig returns a Config delivering every callback inline, on a mock clock, against a
// simulated SDK following behavior.
func NewConfig(t *testing.T, name string, behavior *sdksim.Behavior) adapters.Config {
	t.Helper()
	cfg, err := adapters.Config{
		Name: name,
		Network: config.Network{
			InitTimeout:  10 * time.Second,
			PollInterval: 500 * time.Millisecond,
			PollTimeout:  5 * time.Second,
		},
		Executor: mainthread.Immediate{},
		Clock:    clock.NewMock(),
		Sim:      sdksim.Options{Dispatcher: sdksim.Inline{}, Behavior: behavior},
	}.WithDefaults()
	require.NoError(t, err)
	return cfg
}

// MockClock returns the mock clock installed by NewConfig.
func MockClock(t *testing.T, cfg adapters.Config) *clock.Mock {
	t.Helper()
	mock, ok := cfg.Clock.(*clock.Mock)
	require.True(t, ok, "config does not use a mock clock")
	return mock
}

// AdData builds a request for format with params as server params.
func AdData(format mediation.AdFormat, params map[string]string) mediation.AdData {
	return mediation.AdData{
		AdUnitID:     "ad-unit-1",
		Format:       format,
		ServerParams: params,
	}
}

// Load builds an adapter from network, loads data into a fresh Recorder and requires the load
// to be issued.
func Load(t *testing.T, network adapters.Network, data mediation.AdData) (mediation.Adapter, *mediationtest.Recorder) {
	t.Helper()
	adapter := network.NewAdapter()
	listener := &mediationtest.Recorder{}
	require.NoError(t, adapter.Load(Context(t), data, listener))
	return adapter, listener
}

// AssertCalls checks the exact sequence of listener calls recorded so far.
func AssertCalls(t *testing.T, listener *mediationtest.Recorder, want ...string) {
	t.Helper()
	if len(want) == 0 {
		assert.Empty(t, listener.Calls())
		return
	}
	assert.Equal(t, want, listener.Calls())
}

// Context returns a context cancelled when the test ends.
func Context(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
