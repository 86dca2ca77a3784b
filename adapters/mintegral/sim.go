package mintegral

import (
	"sync"

	"github.com/prebid/mediation-adapters/sdksim"
)

// Simulated reward reported by completed reward videos.
const (
	SimulatedRewardName   = "gems"
	SimulatedRewardAmount = "5"
)

// SimulatedSDK is an in-process stand-in for the Mintegral SDK.
type SimulatedSDK struct {
	opts sdksim.Options

	mu          sync.Mutex
	initialized bool
	inits       int
	consent     *bool
	handlers    int
	loads       []string
	banners     []*SimulatedBanner
}

func NewSimulatedSDK(opts sdksim.Options) *SimulatedSDK {
	return &SimulatedSDK{opts: opts.WithDefaults()}
}

func (s *SimulatedSDK) Init(appID, appKey string, cb InitCallback) {
	s.mu.Lock()
	s.inits++
	s.mu.Unlock()

	s.opts.Dispatcher.Dispatch(func() {
		if s.opts.Behavior.InitFails() {
			cb.OnInitFail("appKey or appId is invalid")
			return
		}
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
		cb.OnInitSuccess()
	})
}

func (s *SimulatedSDK) SetConsentStatus(personalized bool) {
	s.mu.Lock()
	s.consent = &personalized
	s.mu.Unlock()
}

func (s *SimulatedSDK) NewHandler(kind Kind, placementID, unitID string) Handler {
	s.mu.Lock()
	s.handlers++
	s.mu.Unlock()
	return &simHandler{sdk: s, kind: kind, ids: MBridgeIds{PlacementID: placementID, UnitID: unitID}}
}

func (s *SimulatedSDK) NewBannerView(placementID, unitID string, size BannerSize) BannerView {
	b := &SimulatedBanner{sdk: s, ids: MBridgeIds{PlacementID: placementID, UnitID: unitID}, size: size}
	s.mu.Lock()
	s.banners = append(s.banners, b)
	s.mu.Unlock()
	return b
}

// loadOutcome records a load of unitID and draws its outcome. msg is set for failed loads,
// including every load made before Init completes.
func (s *SimulatedSDK) loadOutcome(unitID string) (outcome sdksim.Outcome, msg string) {
	s.mu.Lock()
	s.loads = append(s.loads, unitID)
	initialized := s.initialized
	s.mu.Unlock()

	if !initialized {
		return sdksim.ConfigError, "sdk not initialized"
	}
	outcome = s.opts.Behavior.Next()
	switch outcome {
	case sdksim.NoFill:
		msg = "EXCEPTION_RETURN_EMPTY"
	case sdksim.Timeout:
		msg = "load timeout"
	case sdksim.NetworkError:
		msg = "network error"
	case sdksim.ConfigError:
		msg = "unitId is invalid"
	}
	return outcome, msg
}

// Loads returns the unit IDs passed to Load, in call order.
func (s *SimulatedSDK) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

// Handlers returns how many handlers were created.
func (s *SimulatedSDK) Handlers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handlers
}

func (s *SimulatedSDK) Inits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits
}

func (s *SimulatedSDK) Consent() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consent == nil {
		return false, false
	}
	return *s.consent, true
}

// Banner returns the i-th banner view created.
func (s *SimulatedSDK) Banner(i int) *SimulatedBanner {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.banners[i]
}

type simHandler struct {
	sdk  *SimulatedSDK
	kind Kind
	ids  MBridgeIds

	mu       sync.Mutex
	listener VideoListener
	ready    bool
	outcome  sdksim.Outcome
}

func (h *simHandler) SetListener(l VideoListener) {
	h.mu.Lock()
	h.listener = l
	h.mu.Unlock()
}

func (h *simHandler) Load() {
	outcome, msg := h.sdk.loadOutcome(h.ids.UnitID)
	h.sdk.opts.Dispatcher.Dispatch(func() {
		h.mu.Lock()
		l := h.listener
		if msg == "" {
			h.ready = true
			h.outcome = outcome
		}
		h.mu.Unlock()
		if msg != "" {
			l.OnVideoLoadFail(h.ids, msg)
			return
		}
		l.OnVideoLoadSuccess(h.ids)
	})
}

func (h *simHandler) IsReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

func (h *simHandler) Show() {
	h.mu.Lock()
	ready, outcome, l := h.ready, h.outcome, h.listener
	h.ready = false
	h.mu.Unlock()

	h.sdk.opts.Dispatcher.Dispatch(func() {
		switch {
		case !ready:
			l.OnShowFail(h.ids, "no ad ready to show")
			return
		case outcome == sdksim.Expire:
			l.OnShowFail(h.ids, "ad is expired")
			return
		case outcome == sdksim.ShowError:
			l.OnShowFail(h.ids, "video play error")
			return
		}
		l.OnAdShow(h.ids)
		if h.sdk.opts.Behavior.Clicks() {
			l.OnVideoAdClicked(h.ids)
		}
		l.OnAdClose(h.ids, RewardInfo{
			IsCompleteView: true,
			RewardName:     SimulatedRewardName,
			RewardAmount:   SimulatedRewardAmount,
		})
	})
}

// SimulatedBanner is the BannerView of SimulatedSDK.
type SimulatedBanner struct {
	sdk  *SimulatedSDK
	ids  MBridgeIds
	size BannerSize

	mu       sync.Mutex
	listener BannerListener
	released bool
}

func (b *SimulatedBanner) SetListener(l BannerListener) {
	b.mu.Lock()
	b.listener = l
	b.mu.Unlock()
}

func (b *SimulatedBanner) Load() {
	_, msg := b.sdk.loadOutcome(b.ids.UnitID)
	b.sdk.opts.Dispatcher.Dispatch(func() {
		l := b.currentListener()
		if l == nil {
			return
		}
		if msg != "" {
			l.OnLoadFailed(b.ids, msg)
			return
		}
		l.OnLoadSuccessed(b.ids)
		l.OnLogImpression(b.ids)
	})
}

// Click simulates the user tapping the banner.
func (b *SimulatedBanner) Click() {
	if l := b.currentListener(); l != nil {
		l.OnClick(b.ids)
	}
}

func (b *SimulatedBanner) currentListener() BannerListener {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return nil
	}
	return b.listener
}

func (b *SimulatedBanner) Release() {
	b.mu.Lock()
	b.released = true
	b.listener = nil
	b.mu.Unlock()
}

func (b *SimulatedBanner) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}

func (b *SimulatedBanner) Size() BannerSize {
	return b.size
}
