package mintegral

import (
	"strconv"
	"sync"

	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
)

// handlerManager creates one Handler per kind and unit and hands the same instance to every
// later request for that unit. All handlers of a kind share one listener, which forwards to
// the router by unit ID.
type handlerManager struct {
	sdk    SDK
	router *eventrouter.Router

	mu       sync.Mutex
	handlers map[string]Handler
}

func newHandlerManager(sdk SDK, router *eventrouter.Router) *handlerManager {
	return &handlerManager{
		sdk:      sdk,
		router:   router,
		handlers: make(map[string]Handler),
	}
}

func (m *handlerManager) get(kind Kind, placementID, unitID string) Handler {
	key := routerKey(kind, unitID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handlers[key]; ok {
		return h
	}
	h := m.sdk.NewHandler(kind, placementID, unitID)
	h.SetListener(videoSink{kind: kind, router: m.router})
	m.handlers[key] = h
	return h
}

func (m *handlerManager) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

func routerKey(kind Kind, unitID string) string {
	return kind.String() + "/" + unitID
}

type videoSink struct {
	kind   Kind
	router *eventrouter.Router
}

func (s videoSink) dispatch(ids MBridgeIds, e events.Event) {
	s.router.Dispatch(routerKey(s.kind, ids.UnitID), e)
}

func (s videoSink) OnVideoLoadSuccess(ids MBridgeIds) {
	s.dispatch(ids, events.NewLoaded())
}

func (s videoSink) OnVideoLoadFail(ids MBridgeIds, msg string) {
	s.dispatch(ids, events.NewLoadFailed(translate(msg, errortypes.Unspecified)))
}

func (s videoSink) OnAdShow(ids MBridgeIds) {
	s.dispatch(ids, events.NewShown())
	s.dispatch(ids, events.NewImpression())
}

func (s videoSink) OnShowFail(ids MBridgeIds, msg string) {
	s.dispatch(ids, events.NewError(translate(msg, errortypes.AdShowError)))
}

func (s videoSink) OnVideoAdClicked(ids MBridgeIds) {
	s.dispatch(ids, events.NewClicked())
}

func (s videoSink) OnAdClose(ids MBridgeIds, info RewardInfo) {
	if s.kind == RewardVideo && info.IsCompleteView {
		amount, _ := strconv.Atoi(info.RewardAmount)
		s.dispatch(ids, events.NewRewarded(amount, info.RewardName))
	}
	s.dispatch(ids, events.NewDismissed())
}
