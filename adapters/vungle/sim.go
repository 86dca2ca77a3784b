package vungle

import (
	"sync"

	"github.com/prebid/mediation-adapters/sdksim"
)

// SimulatedSDK is an in-process stand-in for the Vungle SDK.
type SimulatedSDK struct {
	opts sdksim.Options

	mu          sync.Mutex
	initialized bool
	appID       string
	consent     *ConsentStatus
	cached      map[string]sdksim.Outcome
	loads       []string
	inits       int
}

func NewSimulatedSDK(opts sdksim.Options) *SimulatedSDK {
	return &SimulatedSDK{
		opts:   opts.WithDefaults(),
		cached: make(map[string]sdksim.Outcome),
	}
}

func (s *SimulatedSDK) Init(appID string, cb InitCallback) {
	s.mu.Lock()
	s.inits++
	s.mu.Unlock()

	s.opts.Dispatcher.Dispatch(func() {
		if s.opts.Behavior.InitFails() {
			cb.OnError(&Error{Code: ConfigurationError, Message: "invalid application id " + appID})
			return
		}
		s.mu.Lock()
		s.initialized = true
		s.appID = appID
		s.mu.Unlock()
		cb.OnSuccess()
	})
}

func (s *SimulatedSDK) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *SimulatedSDK) UpdateConsentStatus(status ConsentStatus, version string) {
	s.mu.Lock()
	s.consent = &status
	s.mu.Unlock()
}

func (s *SimulatedSDK) LoadAd(placementID string, cfg AdConfig, cb LoadAdCallback) {
	s.mu.Lock()
	s.loads = append(s.loads, placementID)
	initialized := s.initialized
	s.mu.Unlock()

	if !initialized {
		s.opts.Dispatcher.Dispatch(func() {
			cb.OnError(placementID, &Error{Code: NotInitialized, Message: "sdk not initialized"})
		})
		return
	}

	outcome := s.opts.Behavior.Next()
	s.opts.Dispatcher.Dispatch(func() {
		switch outcome {
		case sdksim.NoFill:
			cb.OnError(placementID, &Error{Code: NoServe, Message: "no ad available"})
		case sdksim.Timeout:
			cb.OnError(placementID, &Error{Code: RequestTimeout, Message: "ad request timed out"})
		case sdksim.NetworkError:
			cb.OnError(placementID, &Error{Code: NetworkUnreachable, Message: "network unreachable"})
		case sdksim.ConfigError:
			cb.OnError(placementID, &Error{Code: PlacementNotFound, Message: "unknown placement " + placementID})
		default:
			s.mu.Lock()
			s.cached[placementID] = outcome
			s.mu.Unlock()
			cb.OnAdLoad(placementID)
		}
	})
}

func (s *SimulatedSDK) CanPlayAd(placementID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cached[placementID]
	return ok
}

func (s *SimulatedSDK) PlayAd(placementID string, cfg AdConfig, cb PlayAdCallback) {
	s.mu.Lock()
	outcome, ok := s.cached[placementID]
	delete(s.cached, placementID)
	s.mu.Unlock()

	s.opts.Dispatcher.Dispatch(func() {
		switch {
		case !ok:
			cb.OnError(placementID, &Error{Code: AdUnableToPlay, Message: "no ad cached"})
			return
		case outcome == sdksim.Expire:
			cb.OnError(placementID, &Error{Code: AdExpired, Message: "ad expired"})
			return
		case outcome == sdksim.ShowError:
			cb.OnError(placementID, &Error{Code: AdUnableToPlay, Message: "playback failed"})
			return
		}
		cb.OnAdStart(placementID)
		cb.OnAdViewed(placementID)
		if s.opts.Behavior.Clicks() {
			cb.OnAdClick(placementID)
		}
		cb.OnAdRewarded(placementID)
		cb.OnAdEnd(placementID)
	})
}

// Loads returns the placement IDs passed to LoadAd, in call order.
func (s *SimulatedSDK) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
}

// Inits returns how many times Init was called.
func (s *SimulatedSDK) Inits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits
}

// Consent returns the last consent status set, if any.
func (s *SimulatedSDK) Consent() (ConsentStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consent == nil {
		return 0, false
	}
	return *s.consent, true
}
