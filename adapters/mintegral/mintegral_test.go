package mintegral

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
	cfg := adapterstest.NewConfig(t, "mintegral", behavior)
	if dispatcher != nil {
		cfg.Sim.Dispatcher = dispatcher
	}
	sdk := NewSimulatedSDK(cfg.Sim)
	return New(cfg, sdk), sdk
}

func adData(format mediation.AdFormat, unitID string) mediation.AdData {
	return adapterstest.AdData(format, map[string]string{
		"appId":       "1001",
		"appKey":      "mintegral-key",
		"unitId":      unitID,
		"placementId": "p-" + unitID,
	})
}

func TestRewardedShow(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	adapter, listener := adapterstest.Load(t, n, adData(mediation.FormatRewarded, "2001"))
	adapterstest.AssertCalls(t, listener, "loaded")

	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))
	adapterstest.AssertCalls(t, show, "shown", "impression", "complete:gems:5", "dismissed")
}

func TestInterstitialCloseHasNoReward(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	adapter, _ := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2001"))
	show := &mediationtest.Recorder{}
	require.NoError(t, adapter.Show(show))
	adapterstest.AssertCalls(t, show, "shown", "impression", "dismissed")
}

func TestHandlersReusedPerUnit(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	for i := 0; i < 3; i++ {
		adapter, listener := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2001"))
		adapterstest.AssertCalls(t, listener, "loaded")
		require.NoError(t, adapter.Show(&mediationtest.Recorder{}))
	}
	adapterstest.Load(t, n, adData(mediation.FormatRewarded, "2001"))
	adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2002"))

	assert.Equal(t, 3, sdk.Handlers(), "one handler per kind and unit")
	assert.Equal(t, 3, n.handlers.len())
	assert.Equal(t, []string{"2001", "2001", "2001", "2001", "2002"}, sdk.Loads())
}

func TestReplacedUnitRoutesToNewestAdapter(t *testing.T) {
	n, _ := newTestNetwork(t, sdksim.Always(sdksim.Fill).SetClickRate(1), nil)

	_, first := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2001"))
	adapterstest.AssertCalls(t, first, "loaded")

	second, secondListener := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2001"))
	adapterstest.AssertCalls(t, secondListener, "loaded")

	show := &mediationtest.Recorder{}
	require.NoError(t, second.Show(show))
	adapterstest.AssertCalls(t, show, "shown", "impression", "clicked", "dismissed")
	adapterstest.AssertCalls(t, first, "loaded")
}

func TestBanner(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)
	data := adData(mediation.FormatBanner, "3001")
	data.Width, data.Height = 300, 250

	adapter, listener := adapterstest.Load(t, n, data)
	adapterstest.AssertCalls(t, listener, "loaded", "impression")
	assert.Empty(t, n.Status().Placements, "banners are not routed")

	banner := sdk.Banner(0)
	assert.Equal(t, MediumRectangle, banner.Size())
	banner.Click()
	adapterstest.AssertCalls(t, listener, "loaded", "impression", "clicked")

	assert.Error(t, adapter.Show(&mediationtest.Recorder{}), "banners are not shown")

	adapter.Invalidate()
	assert.True(t, banner.Released())
	banner.Click()
	adapterstest.AssertCalls(t, listener, "loaded", "impression", "clicked")
}

func TestBannerSize(t *testing.T) {
	tests := []struct {
		description string
		width       int
		height      int
		want        BannerSize
	}{
		{"unspecified", 0, 0, StandardBanner},
		{"standard", 320, 50, StandardBanner},
		{"large", 320, 100, LargeBanner},
		{"medium rectangle", 300, 250, MediumRectangle},
		{"leaderboard falls back", 728, 90, LargeBanner},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, bannerSize(test.width, test.height), test.description)
	}
}

func TestInitFailureDropsQueuedLoads(t *testing.T) {
	manual := &sdksim.Manual{}
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill).FailInit(true), manual)

	_, first := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2001"))
	_, second := adapterstest.Load(t, n, adData(mediation.FormatBanner, "3001"))
	manual.RunPending()

	adapterstest.AssertCalls(t, first, "load_failed:ADAPTER_CONFIGURATION_ERROR")
	adapterstest.AssertCalls(t, second, "load_failed:ADAPTER_CONFIGURATION_ERROR")
	assert.Empty(t, sdk.Loads())
	assert.Equal(t, 0, sdk.Handlers())
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		description string
		outcome     sdksim.Outcome
		want        string
	}{
		{"empty response", sdksim.NoFill, "load_failed:NETWORK_NO_FILL"},
		{"timeout", sdksim.Timeout, "load_failed:NETWORK_TIMEOUT"},
		{"network", sdksim.NetworkError, "load_failed:NETWORK_ERROR"},
		{"bad unit", sdksim.ConfigError, "load_failed:ADAPTER_CONFIGURATION_ERROR"},
	}

	for _, test := range tests {
		n, _ := newTestNetwork(t, sdksim.Always(test.outcome), nil)
		_, listener := adapterstest.Load(t, n, adData(mediation.FormatRewarded, "2001"))
		assert.Equal(t, []string{test.want}, listener.Calls(), test.description)
	}
}

func TestShowFailures(t *testing.T) {
	tests := []struct {
		description string
		outcome     sdksim.Outcome
		want        string
	}{
		{"expired", sdksim.Expire, "failed:EXPIRED"},
		{"playback", sdksim.ShowError, "failed:AD_SHOW_ERROR"},
	}

	for _, test := range tests {
		n, _ := newTestNetwork(t, sdksim.Always(test.outcome), nil)
		adapter, _ := adapterstest.Load(t, n, adData(mediation.FormatInterstitial, "2001"))
		show := &mediationtest.Recorder{}
		require.NoError(t, adapter.Show(show), test.description)
		assert.Equal(t, []string{test.want}, show.Calls(), test.description)
	}
}

func TestNonNumericUnitRejected(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)

	err := n.NewAdapter().Load(adapterstest.Context(t), adData(mediation.FormatInterstitial, "unit-a"), &mediationtest.Recorder{})

	assert.Equal(t, errortypes.AdapterConfigurationError, errortypes.ReadCode(err))
	assert.Equal(t, 0, sdk.Inits())
}

func TestConsent(t *testing.T) {
	n, sdk := newTestNetwork(t, sdksim.Always(sdksim.Fill), nil)
	data := adData(mediation.FormatInterstitial, "2001")
	data.GDPRApplies = "1"
	data.ConsentString = "CPuKGCPPuKGCPNEAAAENCZCAAMAAAAAAAAAAAAAAAAAA"

	adapterstest.Load(t, n, data)

	personalized, set := sdk.Consent()
	assert.True(t, set)
	assert.True(t, personalized)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		msg      string
		fallback errortypes.ErrorCode
		want     errortypes.ErrorCode
	}{
		{"EXCEPTION_RETURN_EMPTY", errortypes.Unspecified, errortypes.NetworkNoFill},
		{"No ads available", errortypes.Unspecified, errortypes.NetworkNoFill},
		{"request Timeout", errortypes.Unspecified, errortypes.NetworkTimeout},
		{"net broken", errortypes.Unspecified, errortypes.NoConnection},
		{"network error", errortypes.Unspecified, errortypes.NetworkError},
		{"unitId is invalid", errortypes.Unspecified, errortypes.AdapterConfigurationError},
		{"current unit is loading", errortypes.Unspecified, errortypes.NetworkInvalidState},
		{"ad is expired", errortypes.AdShowError, errortypes.ExpiredAd},
		{"something else", errortypes.AdShowError, errortypes.AdShowError},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, translate(test.msg, test.fallback), test.msg)
	}
}
