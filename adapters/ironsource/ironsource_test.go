package ironsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prebid/mediation-adapters/adapters/adapterstest"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/mediation/mediationtest"
	"github.com/prebid/mediation-adapters/sdksim"
)

func newTestNetwork(t *testing.T, behavior *sdksim.Behavior, dispatcher sdksim.Dispatcher) (*Network, *SimulatedSDK) {
	t.Helper()
	cfg := adapterstest.NewConfig(t, "ironsource", behavior)
	if dispatcher != nil {
		cfg.Sim.Dispatcher = dispatcher
	}
	sdk := NewSimulatedSDK(cfg.Sim)
	return New(cfg, sdk), sdk
}

func adData(format mediation.AdFormat, instanceID string) mediation.AdData {
	return adapterstest.AdData(format, map[string]string{"appKey": "is-key", "instanceId": instanceID})
}

func TestInterstitialLoadAndShow(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill).SetClickRate(1), nil)

	adapter, listener := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "0"))
	adapterstest.AssertCalls(t, listener, "loaded")

	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))
	adapterstest.AssertCalls(t, show, "shown", "impression", "clicked", "dismissed")
	assert.Equal(t, []string{"interstitial/0"}, sdk.Loads())
	assert.Empty(t, n.Status().Placements)
}

func TestRewardedLoadAndShow(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	adapter, _ := adapterstest.Load(t, n, adData(mediation.FormatRewarded, "0"))
	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))
	adapterstest.AssertCalls(t, show, "shown", "impression", "complete::0", "dismissed")
}

func TestBusyInstanceRefused(t *testing.T) {
	manual := &sdksim.Manual{}
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), manual)

	_, first := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "7"))

	second := &mediationtest.Recorder{}
	err := n.NewAdapter().Load(adapterstest.Context(t), adData(mediation.FormatInterstitial, "7"), second)
	assert.Equal(t, errortypes.NetworkInvalidState, errortypes.ReadCode(err))

	manual.RunPending()
	adapterstest.AssertCalls(t, first, "loaded")
	adapterstest.AssertCalls(t, second)
	assert.Equal(t, []string{"interstitial/7"}, sdk.Loads())
}

func TestInstanceNamespacesAreSeparate(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	_, interstitial := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "7"))
	_, rewarded := adapterstest.Load(t, n, adData(mediation.FormatRewarded, "7"))

	adapterstest.AssertCalls(t, interstitial, "loaded")
	adapterstest.AssertCalls(t, rewarded, "loaded")
	assert.Equal(t, []string{"interstitial/7", "rewarded/7"}, n.Status().Placements)
}

func TestInvalidateFreesInstance(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	first, _ := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "7"))
	first.Invalidate()

	_, second := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "7"))
	adapterstest.AssertCalls(t, second, "loaded")
}

func TestLateLoadAfterInvalidateDropped(t *testing.T) {
	manual := &sdksim.Manual{}
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), manual)

	adapter, listener := adapterstest.Load(t, n, adData(mediation.FormatRewarded, "3"))
	adapter.Invalidate()
	manual.RunPending()

	adapterstest.AssertCalls(t, listener)
	assert.Empty(t, n.Status().Placements)
}

func TestInitFailureSurfacesOnLoad(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill).FailInit(true), nil)

	_, listener := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "1"))

	adapterstest.AssertCalls(t, listener, "load_failed:ADAPTER_CONFIGURATION_ERROR")
	assert.Equal(t, 1, sdk.Inits())
	assert.Equal(t, "initialized", n.Status().SDK, "demand-only init has no failure callback")
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		description string
		outcome     sdksim.Outcome
		want        string
	}{
		{"no ads", sdksim.NoFill, "load_failed:NETWORK_NO_FILL"},
		{"timed out", sdksim.Timeout, "load_failed:NETWORK_TIMEOUT"},
		{"offline", sdksim.NetworkError, "load_failed:NO_CONNECTION"},
		{"capped", sdksim.ConfigError, "load_failed:NETWORK_NO_FILL"},
	}

	for _, test := range tests {
		n, _ := newTestNetwork(t, sdksim.Always(test.outcome), nil)
		_, listener := adapterstest.Load(t, n, adData(mediation.FormatRewarded, "1"))
		assert.Equal(t, []string{test.want}, listener.Calls(), test.description)
		assert.Empty(t, n.Status().Placements, test.description)
	}
}

func TestShowFailure(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.ShowError), nil)

	adapter, _ := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "1"))
	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))

	adapterstest.AssertCalls(t, show, "failed:NETWORK_INVALID_STATE")
}

func TestConsent(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)
	data := adData(mediation.FormatInterstitial, "1")
	data.GDPRApplies = "1"

	adapterstest.Load(t, n, data)

	personalized, set := sdk.Consent()
	assert.True(t, set)
	assert.False(t, personalized, "no consent string denies personalization")
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		code int
		want errortypes.ErrorCode
	}{
		{ErrInitFailed, errortypes.AdapterConfigurationError},
		{ErrNoAdsToShow, errortypes.NetworkNoFill},
		{ErrServerResponseFailed, errortypes.NetworkError},
		{ErrNoInternetConnection, errortypes.NoConnection},
		{ErrPlacementCapped, errortypes.NetworkNoFill},
		{ErrShowCalledDuringShow, errortypes.NetworkInvalidState},
		{ErrLoadAlreadyInProgress, errortypes.NetworkInvalidState},
		{ErrLoadTimedOut, errortypes.NetworkTimeout},
		{1, errortypes.Unspecified},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, translate(&Error{Code: test.code}), "code %d", test.code)
	}
}
