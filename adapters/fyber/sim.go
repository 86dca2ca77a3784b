package fyber

import (
	"sync"

	"github.com/prebid/mediation-adapters/sdksim"
)

// ReadyAfterChecks is how many IsReady calls a filled simulated spot answers false before its
// content is ready.
const ReadyAfterChecks = 2

// SimulatedSDK is an in-process stand-in for the Fyber Marketplace SDK. A spot filled with the
// Expire outcome never becomes ready.
type SimulatedSDK struct {
	opts sdksim.Options

	mu            sync.Mutex
	initialized   bool
	inits         int
	consent       *bool
	consentString string
	spots         []*SimulatedSpot
}

func NewSimulatedSDK(opts sdksim.Options) *SimulatedSDK {
	return &SimulatedSDK{opts: opts.WithDefaults()}
}

func (s *SimulatedSDK) Initialize(appID string, done func(status InitStatus)) {
	s.mu.Lock()
	s.inits++
	s.mu.Unlock()

	s.opts.Dispatcher.Dispatch(func() {
		if s.opts.Behavior.InitFails() {
			done(InvalidAppID)
			return
		}
		s.mu.Lock()
		s.initialized = true
		s.mu.Unlock()
		done(SuccessfullyInitialized)
	})
}

func (s *SimulatedSDK) WasInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *SimulatedSDK) SetGdprConsent(consent bool) {
	s.mu.Lock()
	s.consent = &consent
	s.mu.Unlock()
}

func (s *SimulatedSDK) SetGdprConsentString(consent string) {
	s.mu.Lock()
	s.consentString = consent
	s.mu.Unlock()
}

func (s *SimulatedSDK) CreateSpot() AdSpot {
	spot := &SimulatedSpot{sdk: s}
	s.mu.Lock()
	s.spots = append(s.spots, spot)
	s.mu.Unlock()
	return spot
}

// Spots returns every spot created, in order.
func (s *SimulatedSDK) Spots() []*SimulatedSpot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*SimulatedSpot(nil), s.spots...)
}

func (s *SimulatedSDK) Inits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inits
}

// Consent returns the last consent flag and consent string set.
func (s *SimulatedSDK) Consent() (consent, set bool, consentString string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consent == nil {
		return false, false, s.consentString
	}
	return *s.consent, true, s.consentString
}

// SimulatedSpot is the AdSpot of SimulatedSDK.
type SimulatedSpot struct {
	sdk *SimulatedSDK

	mu        sync.Mutex
	listener  RequestListener
	spotID    string
	filled    bool
	outcome   sdksim.Outcome
	checks    int
	shown     bool
	destroyed bool
}

func (sp *SimulatedSpot) SetRequestListener(l RequestListener) {
	sp.mu.Lock()
	sp.listener = l
	sp.mu.Unlock()
}

func (sp *SimulatedSpot) RequestAd(spotID string) {
	sp.mu.Lock()
	sp.spotID = spotID
	l := sp.listener
	sp.mu.Unlock()

	initialized := sp.sdk.WasInitialized()
	outcome := sp.sdk.opts.Behavior.Next()
	sp.sdk.opts.Dispatcher.Dispatch(func() {
		var code ErrorCode
		switch {
		case !initialized:
			code = UnknownAppID
		case outcome == sdksim.NoFill:
			code = NoFill
		case outcome == sdksim.Timeout:
			code = LoadTimeout
		case outcome == sdksim.NetworkError:
			code = ConnectionError
		case outcome == sdksim.ConfigError:
			code = ErrorConfigurationNoSuchSpot
		}
		if code != "" {
			l.OnInneractiveFailedAdRequest(sp, code)
			return
		}
		sp.mu.Lock()
		sp.filled = true
		sp.outcome = outcome
		sp.mu.Unlock()
		l.OnInneractiveSuccessfulAdRequest(sp)
	})
}

func (sp *SimulatedSpot) IsReady() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if !sp.filled || sp.shown || sp.destroyed || sp.outcome == sdksim.Expire {
		return false
	}
	sp.checks++
	return sp.checks >= ReadyAfterChecks
}

func (sp *SimulatedSpot) Show(l FullscreenListener) {
	sp.mu.Lock()
	outcome := sp.outcome
	sp.shown = true
	sp.mu.Unlock()

	sp.sdk.opts.Dispatcher.Dispatch(func() {
		if outcome == sdksim.ShowError {
			l.OnAdShowFailed(sp, NonSecureContentDetected)
			return
		}
		l.OnAdImpression(sp)
		if sp.sdk.opts.Behavior.Clicks() {
			l.OnAdClicked(sp)
		}
		l.OnAdRewarded(sp)
		l.OnAdDismissed(sp)
	})
}

func (sp *SimulatedSpot) Destroy() {
	sp.mu.Lock()
	sp.destroyed = true
	sp.mu.Unlock()
}

func (sp *SimulatedSpot) Destroyed() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.destroyed
}

// Checks returns how many times IsReady counted a check on a filled spot.
func (sp *SimulatedSpot) Checks() int {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.checks
}
