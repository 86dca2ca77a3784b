package eventrouter

import (
	"sync"
	"testing"
	"time"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation/mediationtest"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDispatchInvokesMatchingMethod(t *testing.T) {
	tests := []struct {
		description string
		event       events.Event
		want        string
	}{
		{"loaded", events.NewLoaded(), "loaded"},
		{"load failed", events.NewLoadFailed(errortypes.NetworkNoFill), "load_failed:NETWORK_NO_FILL"},
		{"shown", events.NewShown(), "shown"},
		{"clicked", events.NewClicked(), "clicked"},
		{"impression", events.NewImpression(), "impression"},
		{"dismissed", events.NewDismissed(), "dismissed"},
		{"rewarded", events.NewRewarded(3, "lives"), "complete:lives:3"},
		{"error", events.NewError(errortypes.VideoPlaybackError), "failed:VIDEO_PLAYBACK_ERROR"},
	}

	for _, test := range tests {
		r := New(Options{Network: "test"})
		l := &mediationtest.Recorder{}
		r.Register("placement", l)

		r.Dispatch("placement", test.event)

		assert.Equal(t, []string{test.want}, l.Calls(), test.description)
	}
}

func TestDispatchToUnknownIdentifierIsNoop(t *testing.T) {
	r := New(Options{Network: "test"})
	l := &mediationtest.Recorder{}
	r.Register("other", l)

	assert.NotPanics(t, func() { r.Dispatch("never-registered", events.NewLoaded()) })
	assert.Equal(t, 0, l.Len())
}

func TestDispatchAfterUnregisterIsNoop(t *testing.T) {
	r := New(Options{Network: "test"})
	l := &mediationtest.Recorder{}
	r.Register("zone", l)
	r.Unregister("zone")

	assert.NotPanics(t, func() { r.Dispatch("zone", events.NewClicked()) })
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, r.Len())
}

func TestReplacementScenario(t *testing.T) {
	r := New(Options{Network: "test"})
	l1 := &mediationtest.Recorder{}
	l2 := &mediationtest.Recorder{}

	r.Register("zoneA", l1)
	r.Dispatch("zoneA", events.NewLoaded())
	assert.Equal(t, []string{"loaded"}, l1.Calls())

	r.Register("zoneA", l2)
	r.Dispatch("zoneA", events.NewClicked())

	assert.Equal(t, []string{"clicked"}, l2.Calls())
	assert.Equal(t, []string{"loaded"}, l1.Calls(), "L1 receives nothing further")
}

func TestNotifyDisplaced(t *testing.T) {
	r := New(Options{Network: "test", NotifyDisplaced: true})
	l1 := &mediationtest.Recorder{}
	l2 := &mediationtest.Recorder{}

	r.Register("zoneA", l1)
	r.Register("zoneA", l2)
	r.Dispatch("zoneA", events.NewLoaded())

	assert.Equal(t, []string{"load_failed:REQUEST_SUPERSEDED"}, l1.Calls())
	assert.Equal(t, []string{"loaded"}, l2.Calls())
}

func TestStaleReleaseKeepsSuccessor(t *testing.T) {
	r := New(Options{Network: "test"})
	first := r.Register("p", &mediationtest.Recorder{})
	successor := &mediationtest.Recorder{}
	second := r.Register("p", successor)

	assert.False(t, first.Active())
	assert.False(t, first.Release(), "a displaced registration cannot remove its successor")
	assert.True(t, second.Active())

	r.Dispatch("p", events.NewShown())
	assert.Equal(t, []string{"shown"}, successor.Calls())

	assert.True(t, second.Release())
	assert.False(t, second.Release())
	assert.Equal(t, 0, r.Len())
}

func TestNilRegistration(t *testing.T) {
	var reg *Registration
	assert.False(t, reg.Release())
	assert.False(t, reg.Active())
}

func TestIDsAndLookup(t *testing.T) {
	r := New(Options{Network: "test"})
	l := &mediationtest.Recorder{}
	r.Register("b", l)
	r.Register("a", &mediationtest.Recorder{})

	assert.Equal(t, []string{"a", "b"}, r.IDs())
	got, ok := r.Lookup("b")
	assert.True(t, ok)
	assert.Same(t, l, got)
	_, ok = r.Lookup("c")
	assert.False(t, ok)
}

func TestDispatchRecordsMetrics(t *testing.T) {
	m := &metrics.MetricsEngineMock{}
	m.On("RecordDispatch", mock.Anything).Return()
	m.On("RecordDisplaced", "test").Return()

	r := New(Options{Network: "test", Metrics: m})
	r.Register("p", &mediationtest.Recorder{})
	r.Register("p", &mediationtest.Recorder{})
	r.Dispatch("p", events.NewClicked())
	r.Dispatch("q", events.NewClicked())

	m.AssertCalled(t, "RecordDispatch", metrics.DispatchLabels{Network: "test", Kind: events.Clicked, Delivered: true})
	m.AssertCalled(t, "RecordDispatch", metrics.DispatchLabels{Network: "test", Kind: events.Clicked, Delivered: false})
	m.AssertNumberOfCalls(t, "RecordDisplaced", 1)
}

func TestConcurrentCallbacksThroughLoop(t *testing.T) {
	loop := mainthread.NewLoop()
	defer loop.Stop()

	r := New(Options{Network: "test", Executor: loop})
	listeners := map[string]*mediationtest.Recorder{
		"p1": {}, "p2": {}, "p3": {},
	}
	for id, l := range listeners {
		r.Register(id, l)
	}

	var wg sync.WaitGroup
	for id := range listeners {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			r.Dispatch(id, events.NewLoaded())
			r.Dispatch(id, events.NewShown())
			r.Dispatch(id, events.NewClicked())
			r.Dispatch(id, events.NewDismissed())
		}(id)
	}
	wg.Wait()

	for id, l := range listeners {
		assert.Eventually(t, func() bool { return l.Len() == 4 }, time.Second, time.Millisecond, id)
		assert.Equal(t, []string{"loaded", "shown", "clicked", "dismissed"}, l.Calls(), "per identifier order is kept for %s", id)
	}
}

func TestDispatchAfterLoopStopIsDropped(t *testing.T) {
	loop := mainthread.NewLoop()
	r := New(Options{Network: "test", Executor: loop})
	l := &mediationtest.Recorder{}
	r.Register("p", l)
	loop.Stop()

	assert.NotPanics(t, func() { r.Dispatch("p", events.NewLoaded()) })
	assert.Equal(t, 0, l.Len())
}

func TestRegisterIfAbsent(t *testing.T) {
	r := New(Options{Network: "test"})
	first, second := &mediationtest.Recorder{}, &mediationtest.Recorder{}

	reg, ok := r.RegisterIfAbsent("instance", first)
	assert.True(t, ok)

	_, ok = r.RegisterIfAbsent("instance", second)
	assert.False(t, ok, "a busy identifier is not taken over")

	r.Dispatch("instance", events.NewLoaded())
	assert.Equal(t, []string{"loaded"}, first.Calls())
	assert.Empty(t, second.Calls())

	reg.Release()
	_, ok = r.RegisterIfAbsent("instance", second)
	assert.True(t, ok, "released identifiers can be registered again")
}
