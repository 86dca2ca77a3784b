package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/mediation/mediationtest"
	"github.com/prebid/mediation-adapters/metrics"
)

func newTestLifecycle() *Lifecycle {
	return NewLifecycle(LifecycleOptions{Network: "test"})
}

func loading(t *testing.T, format mediation.AdFormat) (*Lifecycle, *mediationtest.Recorder) {
	t.Helper()
	l := newTestLifecycle()
	listener := &mediationtest.Recorder{}
	id, err := l.BeginLoad(mediation.AdData{Format: format}, listener)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	return l, listener
}

// loadOnly hides the InteractionListener half of a Recorder.
type loadOnly struct {
	mediation.LoadListener
}

func TestFullscreenHappyPath(t *testing.T) {
	l, loadListener := loading(t, mediation.FormatRewarded)
	l.Handle(events.NewLoaded())
	assert.Equal(t, Loaded, l.State())

	show := &mediationtest.Recorder{}
	require.NoError(t, l.BeginShow(show))
	for _, e := range []events.Event{
		events.NewShown(),
		events.NewImpression(),
		events.NewClicked(),
		events.NewRewarded(10, "coins"),
		events.NewDismissed(),
	} {
		l.Handle(e)
	}

	assert.Equal(t, []string{"loaded"}, loadListener.Calls())
	assert.Equal(t, []string{"shown", "impression", "clicked", "complete:coins:10", "dismissed"}, show.Calls())
	assert.Equal(t, Closed, l.State())

	l.Handle(events.NewClicked())
	assert.Equal(t, 5, show.Len(), "events after close are dropped")
}

func TestLoadFailureNotifiedOnce(t *testing.T) {
	l, listener := loading(t, mediation.FormatInterstitial)

	l.Handle(events.NewLoadFailed(errortypes.NetworkNoFill))
	l.Handle(events.NewLoadFailed(errortypes.NetworkTimeout))
	l.Handle(events.NewLoaded())

	assert.Equal(t, []string{"load_failed:NETWORK_NO_FILL"}, listener.Calls())
	assert.Equal(t, Failed, l.State())
}

func TestErrorWhileLoadingIsLoadFailure(t *testing.T) {
	l, listener := loading(t, mediation.FormatInterstitial)

	l.Handle(events.NewError(errortypes.NetworkError))

	assert.Equal(t, []string{"load_failed:NETWORK_ERROR"}, listener.Calls())
}

func TestErrorWhileShowingGoesToInteractionListener(t *testing.T) {
	l, loadListener := loading(t, mediation.FormatInterstitial)
	l.Handle(events.NewLoaded())
	show := &mediationtest.Recorder{}
	require.NoError(t, l.BeginShow(show))

	l.Handle(events.NewError(errortypes.VideoPlaybackError))
	l.Handle(events.NewDismissed())

	assert.Equal(t, []string{"loaded"}, loadListener.Calls())
	assert.Equal(t, []string{"failed:VIDEO_PLAYBACK_ERROR"}, show.Calls())
	assert.Equal(t, Closed, l.State())
}

func TestExpiredAdCannotBeShown(t *testing.T) {
	l, _ := loading(t, mediation.FormatRewarded)
	l.Handle(events.NewLoaded())
	l.Handle(events.NewError(errortypes.ExpiredAd))

	err := l.BeginShow(&mediationtest.Recorder{})

	assert.Equal(t, errortypes.ExpiredAd, errortypes.ReadCode(err))
	assert.Equal(t, Loaded, l.State())
}

func TestIllegalTransitions(t *testing.T) {
	tests := []struct {
		description string
		setup       func(l *Lifecycle)
		action      func(l *Lifecycle) error
	}{
		{
			description: "show before load",
			setup:       func(l *Lifecycle) {},
			action:      func(l *Lifecycle) error { return l.BeginShow(&mediationtest.Recorder{}) },
		},
		{
			description: "show while loading",
			setup: func(l *Lifecycle) {
				l.BeginLoad(mediation.AdData{Format: mediation.FormatInterstitial}, &mediationtest.Recorder{})
			},
			action: func(l *Lifecycle) error { return l.BeginShow(&mediationtest.Recorder{}) },
		},
		{
			description: "second load",
			setup: func(l *Lifecycle) {
				l.BeginLoad(mediation.AdData{Format: mediation.FormatInterstitial}, &mediationtest.Recorder{})
			},
			action: func(l *Lifecycle) error {
				_, err := l.BeginLoad(mediation.AdData{}, &mediationtest.Recorder{})
				return err
			},
		},
		{
			description: "show banner",
			setup: func(l *Lifecycle) {
				l.BeginLoad(mediation.AdData{Format: mediation.FormatBanner}, &mediationtest.Recorder{})
				l.Handle(events.NewLoaded())
			},
			action: func(l *Lifecycle) error { return l.BeginShow(&mediationtest.Recorder{}) },
		},
		{
			description: "load after destroy",
			setup:       func(l *Lifecycle) { l.Destroy() },
			action: func(l *Lifecycle) error {
				_, err := l.BeginLoad(mediation.AdData{}, &mediationtest.Recorder{})
				return err
			},
		},
	}

	for _, test := range tests {
		l := newTestLifecycle()
		test.setup(l)
		err := test.action(l)
		assert.Equal(t, errortypes.NetworkInvalidState, errortypes.ReadCode(err), test.description)
	}
}

func TestNilLoadListener(t *testing.T) {
	_, err := newTestLifecycle().BeginLoad(mediation.AdData{}, nil)
	assert.Equal(t, errortypes.InternalError, errortypes.ReadCode(err))
}

func TestBannerInteractionsUseLoadListener(t *testing.T) {
	l, listener := loading(t, mediation.FormatBanner)

	l.Handle(events.NewLoaded())
	l.Handle(events.NewImpression())
	l.Handle(events.NewClicked())
	l.Handle(events.NewRewarded(1, "x"))

	assert.Equal(t, []string{"loaded", "impression", "clicked"}, listener.Calls())
	assert.Equal(t, Loaded, l.State())
}

func TestBannerWithLoadOnlyListener(t *testing.T) {
	l := newTestLifecycle()
	recorder := &mediationtest.Recorder{}
	_, err := l.BeginLoad(mediation.AdData{Format: mediation.FormatBanner}, loadOnly{recorder})
	require.NoError(t, err)

	l.Handle(events.NewLoaded())
	assert.NotPanics(t, func() { l.Handle(events.NewClicked()) })
	assert.Equal(t, []string{"loaded"}, recorder.Calls())
}

func TestDestroyReleasesRegistrationAndHooks(t *testing.T) {
	router := eventrouter.New(eventrouter.Options{Network: "test"})
	l, listener := loading(t, mediation.FormatInterstitial)
	l.Attach(router.Register("placement", l))
	released := 0
	l.OnRelease(func() { released++ })

	assert.True(t, l.Destroy())
	assert.False(t, l.Destroy())

	assert.Equal(t, 0, router.Len())
	assert.Equal(t, 1, released)
	router.Dispatch("placement", events.NewLoaded())
	assert.Empty(t, listener.Calls())
}

func TestTerminalEventReleasesRegistration(t *testing.T) {
	router := eventrouter.New(eventrouter.Options{Network: "test"})
	l, listener := loading(t, mediation.FormatInterstitial)
	l.Attach(router.Register("placement", l))

	router.Dispatch("placement", events.NewLoadFailed(errortypes.NetworkNoFill))

	assert.Equal(t, []string{"load_failed:NETWORK_NO_FILL"}, listener.Calls())
	assert.Equal(t, 0, router.Len())
}

func TestAttachAfterTerminalReleasesImmediately(t *testing.T) {
	router := eventrouter.New(eventrouter.Options{Network: "test"})
	l, _ := loading(t, mediation.FormatInterstitial)
	l.Handle(events.NewLoadFailed(errortypes.NetworkNoFill))

	l.Attach(router.Register("placement", l))
	hookRan := false
	l.OnRelease(func() { hookRan = true })

	assert.Equal(t, 0, router.Len())
	assert.True(t, hookRan)
}

func TestAttachIfLoading(t *testing.T) {
	testCases := []struct {
		description string
		end         func(l *Lifecycle)
		expectRan   bool
	}{
		{
			description: "loading",
			end:         func(l *Lifecycle) {},
			expectRan:   true,
		},
		{
			description: "destroyed",
			end:         func(l *Lifecycle) { l.Destroy() },
		},
		{
			description: "failed",
			end:         func(l *Lifecycle) { l.Handle(events.NewLoadFailed(errortypes.NetworkNoFill)) },
		},
		{
			description: "loaded",
			end:         func(l *Lifecycle) { l.Handle(events.NewLoaded()) },
		},
	}

	for _, test := range testCases {
		router := eventrouter.New(eventrouter.Options{Network: "test"})
		live, liveListener := loading(t, mediation.FormatInterstitial)
		live.Attach(router.Register("zoneA", live))

		l, _ := loading(t, mediation.FormatInterstitial)
		test.end(l)
		ran := l.AttachIfLoading(func() *eventrouter.Registration { return router.Register("zoneA", l) })

		assert.Equal(t, test.expectRan, ran, test.description)
		router.Dispatch("zoneA", events.NewLoadFailed(errortypes.NetworkNoFill))
		if test.expectRan {
			assert.Empty(t, liveListener.Calls(), test.description)
			assert.Equal(t, Failed, l.State(), test.description)
			continue
		}
		assert.Equal(t, []string{"load_failed:NETWORK_NO_FILL"}, liveListener.Calls(), "%s: live listener keeps the placement", test.description)
	}
}

func TestDisplacedLifecycleDoesNotRemoveSuccessor(t *testing.T) {
	router := eventrouter.New(eventrouter.Options{Network: "test"})
	first, firstListener := loading(t, mediation.FormatInterstitial)
	first.Attach(router.Register("zoneA", first))
	second, secondListener := loading(t, mediation.FormatInterstitial)
	second.Attach(router.Register("zoneA", second))

	first.Destroy()
	router.Dispatch("zoneA", events.NewLoaded())

	assert.Empty(t, firstListener.Calls())
	assert.Equal(t, []string{"loaded"}, secondListener.Calls())
}

func TestRejectRecordsConfigurationFailure(t *testing.T) {
	m := &metrics.MetricsEngineMock{}
	m.On("RecordLoad", metrics.LoadLabels{
		Network: "test",
		Format:  "interstitial",
		Outcome: metrics.LoadFailure,
		Code:    errortypes.AdapterConfigurationError,
	}).Return()

	l := NewLifecycle(LifecycleOptions{Network: "test", Metrics: m})
	listener := &mediationtest.Recorder{}
	_, err := l.BeginLoad(mediation.AdData{Format: mediation.FormatInterstitial}, listener)
	require.NoError(t, err)

	badConfig := &errortypes.BadConfig{Message: "missing server params: appId"}
	assert.Same(t, badConfig, l.Reject(badConfig))
	assert.Equal(t, Failed, l.State())
	assert.Empty(t, listener.Calls())
	m.AssertExpectations(t)
}

func TestLoadMetrics(t *testing.T) {
	m := &metrics.MetricsEngineMock{}
	m.On("RecordLoad", mock.Anything).Return()
	m.On("RecordLoadTime", "test", mock.Anything).Return()
	m.On("RecordShow", "test", metrics.ShowSuccess).Return()

	l := NewLifecycle(LifecycleOptions{Network: "test", Metrics: m})
	_, err := l.BeginLoad(mediation.AdData{Format: mediation.FormatRewarded}, &mediationtest.Recorder{})
	require.NoError(t, err)
	l.Handle(events.NewLoaded())
	require.NoError(t, l.BeginShow(&mediationtest.Recorder{}))
	l.Handle(events.NewShown())

	m.AssertCalled(t, "RecordLoad", metrics.LoadLabels{Network: "test", Format: "rewarded", Outcome: metrics.LoadSuccess})
	m.AssertNumberOfCalls(t, "RecordLoadTime", 1)
	m.AssertNumberOfCalls(t, "RecordShow", 1)
}

func TestListenerMethodsFeedHandle(t *testing.T) {
	l, listener := loading(t, mediation.FormatRewarded)
	var asListener mediation.Listener = l

	asListener.OnAdLoaded()
	require.NoError(t, l.BeginShow(listener))
	asListener.OnAdShown()
	asListener.OnAdImpression()
	asListener.OnAdClicked()
	asListener.OnAdComplete(mediation.Reward{Label: "gems", Amount: 2})
	asListener.OnAdFailed(errortypes.AdShowError)

	assert.Equal(t, []string{"loaded", "shown", "impression", "clicked", "complete:gems:2", "failed:AD_SHOW_ERROR"}, listener.Calls())
}

func TestRequestIDsAreUnique(t *testing.T) {
	a, _ := loading(t, mediation.FormatBanner)
	b, _ := loading(t, mediation.FormatBanner)
	assert.NotEqual(t, a.RequestID(), b.RequestID())
	assert.Equal(t, mediation.FormatBanner, a.Format())
}
