package chartboost

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
	cfg := adapterstest.NewConfig(t, "chartboost", behavior)
	if dispatcher != nil {
		cfg.Sim.Dispatcher = dispatcher
	}
	sdk := NewSimulatedSDK(cfg.Sim)
	return New(cfg, sdk), sdk
}

func adData(format mediation.AdFormat, extra map[string]string) mediation.AdData {
	params := map[string]string{"appId": "cb-app", "appSignature": "cb-signature"}
	for k, v := range extra {
		params[k] = v
	}
	return adapterstest.AdData(format, params)
}

func TestRewardedCompletionCarriesConfiguredLabel(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	adapter, listener := adapterstest.Load(t, n, adData(mediation.FormatRewarded, map[string]string{
		"location":    "Level Complete",
		"rewardLabel": "coins",
	}))
	adapterstest.AssertCalls(t, listener, "loaded")
	assert.Equal(t, []string{"rewarded/Level Complete"}, sdk.Caches())

	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))
	adapterstest.AssertCalls(t, show, "shown", "impression", "complete:coins:10", "dismissed")
}

func TestDefaultLocation(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	adapterstest.Load(t, n, adData(mediation.FormatInterstitial, nil))

	assert.Equal(t, []string{"interstitial/Default"}, sdk.Caches())
}

func TestAdTypesShareLocationIndependently(t *testing.T) {
	manual := &sdksim.Manual{}
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), manual)

	_, interstitial := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, map[string]string{"location": "Home"}))
	_, rewarded := adapterstest.Load(t, n, adData(mediation.FormatRewarded, map[string]string{"location": "Home"}))
	manual.RunPending()

	adapterstest.AssertCalls(t, interstitial, "loaded")
	adapterstest.AssertCalls(t, rewarded, "loaded")
	assert.Equal(t, []string{"interstitial/Home", "rewarded/Home"}, n.Status().Placements)
}

func TestClickForwardedWhileShowing(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill).SetClickRate(1), nil)

	adapter, _ := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, nil))
	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))

	adapterstest.AssertCalls(t, show, "shown", "impression", "clicked", "dismissed")
}

func TestStartFailureFailsQueuedLoads(t *testing.T) {
	manual := &sdksim.Manual{}
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill).FailInit(true), manual)

	_, first := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, map[string]string{"location": "a"}))
	_, second := adapterstest.Load(t, n, adData(mediation.FormatRewarded, map[string]string{"location": "b"}))
	manual.RunPending()

	adapterstest.AssertCalls(t, first, "load_failed:ADAPTER_CONFIGURATION_ERROR")
	adapterstest.AssertCalls(t, second, "load_failed:ADAPTER_CONFIGURATION_ERROR")
	assert.Empty(t, sdk.Caches())
	assert.Equal(t, 1, sdk.Starts())
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		description string
		outcome     sdksim.Outcome
		want        string
	}{
		{"no ad found", sdksim.NoFill, "load_failed:NETWORK_NO_FILL"},
		{"web view timeout", sdksim.Timeout, "load_failed:NETWORK_TIMEOUT"},
		{"internet unavailable", sdksim.NetworkError, "load_failed:NO_CONNECTION"},
		{"invalid location", sdksim.ConfigError, "load_failed:ADAPTER_CONFIGURATION_ERROR"},
	}

	for _, test := range tests {
		n, _ := newTestNetwork(t, sdksim.Always(test.outcome), nil)
		_, listener := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, nil))
		assert.Equal(t, []string{test.want}, listener.Calls(), test.description)
		assert.Empty(t, n.Status().Placements, test.description)
	}
}

func TestShowFailures(t *testing.T) {
	tests := []struct {
		description string
		outcome     sdksim.Outcome
		want        string
	}{
		{"asset missing", sdksim.Expire, "failed:EXPIRED"},
		{"display error", sdksim.ShowError, "failed:AD_SHOW_ERROR"},
	}

	for _, test := range tests {
		n, _ := newTestNetwork(t, sdksim.Always(test.outcome), nil)
		adapter, _ := adapterstest.Load(t, n, adData(mediation.FormatRewarded, nil))
		show := &mediationtest.Recorder{}
		require.NoError(t, adapter.Show(show), test.description)
		assert.Equal(t, []string{test.want}, show.Calls(), test.description)
	}
}

func TestMissingSignature(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)
	listener := &mediationtest.Recorder{}

	err := n.NewAdapter().Load(adapterstest.Context(t), adapterstest.AdData(mediation.FormatInterstitial, map[string]string{"appId": "cb-app"}), listener)

	assert.Equal(t, errortypes.AdapterConfigurationError, errortypes.ReadCode(err))
	adapterstest.AssertCalls(t, listener)
	assert.Equal(t, 0, sdk.Starts())
}

func TestBannerNotSupported(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)
	assert.False(t, n.Info().Supports(mediation.FormatBanner))
}

func TestDataUseConsent(t *testing.T) {
	tests := []struct {
		description string
		gdprApplies string
		consent     string
		want        []DataUseConsent
	}{
		{"gdpr does not apply", "0", "", nil},
		{"behavioral", "1", "CPuKGCPPuKGCPNEAAAENCZCAAMAAAAAAAAAAAAAAAAAA", []DataUseConsent{GDPRBehavioral}},
		{"non behavioral", "1", "CPuKGCPPuKGCPNEAAAENCZCAAAAAAAAAAAAAAAAAAAAA", []DataUseConsent{GDPRNonBehavioral}},
	}

	for _, test := range tests {
		n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)
		data := adData(mediation.FormatInterstitial, nil)
		data.GDPRApplies = test.gdprApplies
		data.ConsentString = test.consent

		adapterstest.Load(t, n, data)

		assert.Equal(t, test.want, sdk.Consent(), test.description)
	}
}

func TestTranslate(t *testing.T) {
	for cbErr := ErrInternal; cbErr <= ErrInternetUnavailableAtShow; cbErr++ {
		_, ok := impressionErrors[cbErr]
		assert.True(t, ok, "impression error %d has no mapping", cbErr)
	}
	assert.Equal(t, errortypes.Unspecified, translate(CBImpressionError(99)))
	assert.Equal(t, errortypes.NoConnection, translateStart(&StartError{Code: StartNetworkFailure}))
	assert.Equal(t, errortypes.Unspecified, translateStart(nil))
}
