package chartboost

import (
	"sync"

	"github.com/prebid/mediation-adapters/sdksim"
)

// SimulatedReward is the amount the simulated SDK grants per completed rewarded video.
const SimulatedReward = 10

type cacheKey struct {
	adType   AdType
	location string
}

// SimulatedSDK is an in-process stand-in for the Chartboost SDK.
type SimulatedSDK struct {
	opts sdksim.Options

	mu       sync.Mutex
	started  bool
	starts   int
	delegate Delegate
	consent  []DataUseConsent
	cached   map[cacheKey]sdksim.Outcome
	caches   []string
}

func NewSimulatedSDK(opts sdksim.Options) *SimulatedSDK {
	return &SimulatedSDK{
		opts:   opts.WithDefaults(),
		cached: make(map[cacheKey]sdksim.Outcome),
	}
}

func (s *SimulatedSDK) StartWithAppID(appID, appSignature string, done func(err *StartError)) {
	s.mu.Lock()
	s.starts++
	s.mu.Unlock()

	s.opts.Dispatcher.Dispatch(func() {
		if s.opts.Behavior.InitFails() {
			done(&StartError{Code: StartInvalidCredentials})
			return
		}
		s.mu.Lock()
		s.started = true
		s.mu.Unlock()
		done(nil)
	})
}

func (s *SimulatedSDK) IsSDKInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SimulatedSDK) SetDelegate(d Delegate) {
	s.mu.Lock()
	s.delegate = d
	s.mu.Unlock()
}

func (s *SimulatedSDK) AddDataUseConsent(consent DataUseConsent) {
	s.mu.Lock()
	s.consent = append(s.consent, consent)
	s.mu.Unlock()
}

func (s *SimulatedSDK) Cache(adType AdType, location string) {
	s.mu.Lock()
	s.caches = append(s.caches, routerKey(adType, location))
	started := s.started
	d := s.delegate
	s.mu.Unlock()

	if !started {
		s.opts.Dispatcher.Dispatch(func() { d.DidFailToLoadAd(adType, location, ErrSessionNotStarted) })
		return
	}

	outcome := s.opts.Behavior.Next()
	s.opts.Dispatcher.Dispatch(func() {
		switch outcome {
		case sdksim.NoFill:
			d.DidFailToLoadAd(adType, location, ErrNoAdFound)
		case sdksim.Timeout:
			d.DidFailToLoadAd(adType, location, ErrWebViewPageLoadTimeout)
		case sdksim.NetworkError:
			d.DidFailToLoadAd(adType, location, ErrInternetUnavailable)
		case sdksim.ConfigError:
			d.DidFailToLoadAd(adType, location, ErrInvalidLocation)
		default:
			s.mu.Lock()
			s.cached[cacheKey{adType, location}] = outcome
			s.mu.Unlock()
			d.DidCacheAd(adType, location)
		}
	})
}

func (s *SimulatedSDK) HasAd(adType AdType, location string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cached[cacheKey{adType, location}]
	return ok
}

func (s *SimulatedSDK) Show(adType AdType, location string) {
	key := cacheKey{adType, location}
	s.mu.Lock()
	outcome, ok := s.cached[key]
	delete(s.cached, key)
	d := s.delegate
	s.mu.Unlock()

	s.opts.Dispatcher.Dispatch(func() {
		switch {
		case !ok:
			d.DidFailToShowAd(adType, location, ErrNoAdFound)
			return
		case outcome == sdksim.Expire:
			d.DidFailToShowAd(adType, location, ErrAssetMissing)
			return
		case outcome == sdksim.ShowError:
			d.DidFailToShowAd(adType, location, ErrErrorDisplayingView)
			return
		}
		d.DidDisplayAd(adType, location)
		if s.opts.Behavior.Clicks() {
			d.DidClickAd(adType, location)
		}
		if adType == Rewarded {
			d.DidCompleteRewardedVideo(location, SimulatedReward)
		}
		d.DidDismissAd(adType, location)
	})
}

// Caches returns the "adtype/location" keys passed to Cache, in call order.
func (s *SimulatedSDK) Caches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.caches...)
}

func (s *SimulatedSDK) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

// Consent returns every consent value added, in order.
func (s *SimulatedSDK) Consent() []DataUseConsent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DataUseConsent(nil), s.consent...)
}
