package ironsource

import (
	"sync"

	"github.com/prebid/mediation-adapters/sdksim"
)

type instanceKey struct {
	rewarded   bool
	instanceID string
}

// SimulatedSDK is an in-process stand-in for the IronSource demand-only API.
type SimulatedSDK struct {
	opts sdksim.Options

	mu           sync.Mutex
	appKey       string
	inits        int
	initFailed   bool
	consent      *bool
	interstitial InterstitialListener
	rewarded     RewardedVideoListener
	ready        map[instanceKey]sdksim.Outcome
	loads        []string
}

func NewSimulatedSDK(opts sdksim.Options) *SimulatedSDK {
	return &SimulatedSDK{
		opts:  opts.WithDefaults(),
		ready: make(map[instanceKey]sdksim.Outcome),
	}
}

func (s *SimulatedSDK) InitISDemandOnly(appKey string, units ...AdUnit) {
	s.mu.Lock()
	s.inits++
	s.appKey = appKey
	s.initFailed = s.opts.Behavior.InitFails()
	s.mu.Unlock()
}

func (s *SimulatedSDK) SetConsent(consent bool) {
	s.mu.Lock()
	s.consent = &consent
	s.mu.Unlock()
}

func (s *SimulatedSDK) SetISDemandOnlyInterstitialListener(l InterstitialListener) {
	s.mu.Lock()
	s.interstitial = l
	s.mu.Unlock()
}

func (s *SimulatedSDK) SetISDemandOnlyRewardedVideoListener(l RewardedVideoListener) {
	s.mu.Lock()
	s.rewarded = l
	s.mu.Unlock()
}

// load draws the outcome of a load and returns the error to report, if any.
func (s *SimulatedSDK) load(key instanceKey) (sdksim.Outcome, *Error) {
	s.mu.Lock()
	prefix := "interstitial/"
	if key.rewarded {
		prefix = "rewarded/"
	}
	s.loads = append(s.loads, prefix+key.instanceID)
	initialized, failed := s.inits > 0, s.initFailed
	s.mu.Unlock()

	if !initialized || failed {
		return sdksim.ConfigError, &Error{Code: ErrInitFailed, Message: "init failed"}
	}
	outcome := s.opts.Behavior.Next()
	switch outcome {
	case sdksim.NoFill:
		return outcome, &Error{Code: ErrNoAdsToShow, Message: "no ads to show"}
	case sdksim.Timeout:
		return outcome, &Error{Code: ErrLoadTimedOut, Message: "load timed out"}
	case sdksim.NetworkError:
		return outcome, &Error{Code: ErrNoInternetConnection, Message: "no internet connection"}
	case sdksim.ConfigError:
		return outcome, &Error{Code: ErrPlacementCapped, Message: "placement capped"}
	}
	s.mu.Lock()
	s.ready[key] = outcome
	s.mu.Unlock()
	return outcome, nil
}

func (s *SimulatedSDK) take(key instanceKey) (sdksim.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome, ok := s.ready[key]
	delete(s.ready, key)
	return outcome, ok
}

func (s *SimulatedSDK) isReady(key instanceKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ready[key]
	return ok
}

// showError returns the error a show of outcome ends with, if any.
func showError(outcome sdksim.Outcome, ok bool) *Error {
	switch {
	case !ok:
		return &Error{Code: ErrInstanceNotReadyForShow, Message: "no ad ready"}
	case outcome == sdksim.ShowError:
		return &Error{Code: ErrShowCalledDuringShow, Message: "show failed"}
	case outcome == sdksim.Expire:
		return &Error{Code: ErrInstanceNotReadyForShow, Message: "ad expired"}
	}
	return nil
}

func (s *SimulatedSDK) LoadISDemandOnlyInterstitial(instanceID string) {
	_, err := s.load(instanceKey{instanceID: instanceID})
	l := s.interstitialListener()
	s.opts.Dispatcher.Dispatch(func() {
		if err != nil {
			l.OnInterstitialAdLoadFailed(instanceID, err)
			return
		}
		l.OnInterstitialAdReady(instanceID)
	})
}

func (s *SimulatedSDK) IsISDemandOnlyInterstitialReady(instanceID string) bool {
	return s.isReady(instanceKey{instanceID: instanceID})
}

func (s *SimulatedSDK) ShowISDemandOnlyInterstitial(instanceID string) {
	outcome, ok := s.take(instanceKey{instanceID: instanceID})
	l := s.interstitialListener()
	s.opts.Dispatcher.Dispatch(func() {
		if err := showError(outcome, ok); err != nil {
			l.OnInterstitialAdShowFailed(instanceID, err)
			return
		}
		l.OnInterstitialAdOpened(instanceID)
		if s.opts.Behavior.Clicks() {
			l.OnInterstitialAdClicked(instanceID)
		}
		l.OnInterstitialAdClosed(instanceID)
	})
}

func (s *SimulatedSDK) LoadISDemandOnlyRewardedVideo(instanceID string) {
	_, err := s.load(instanceKey{rewarded: true, instanceID: instanceID})
	l := s.rewardedListener()
	s.opts.Dispatcher.Dispatch(func() {
		if err != nil {
			l.OnRewardedVideoAdLoadFailed(instanceID, err)
			return
		}
		l.OnRewardedVideoAdLoadSuccess(instanceID)
	})
}

func (s *SimulatedSDK) IsISDemandOnlyRewardedVideoAvailable(instanceID string) bool {
	return s.isReady(instanceKey{rewarded: true, instanceID: instanceID})
}

func (s *SimulatedSDK) ShowISDemandOnlyRewardedVideo(instanceID string) {
	outcome, ok := s.take(instanceKey{rewarded: true, instanceID: instanceID})
	l := s.rewardedListener()
	s.opts.Dispatcher.Dispatch(func() {
		if err := showError(outcome, ok); err != nil {
			l.OnRewardedVideoAdShowFailed(instanceID, err)
			return
		}
		l.OnRewardedVideoAdOpened(instanceID)
		if s.opts.Behavior.Clicks() {
			l.OnRewardedVideoAdClicked(instanceID)
		}
		l.OnRewardedVideoAdRewarded(instanceID)
		l.OnRewardedVideoAdClosed(instanceID)
	})
}

func (s *SimulatedSDK) interstitialListener() InterstitialListener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interstitial
}

func (s *SimulatedSDK) rewardedListener() RewardedVideoListener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewarded
}

// Loads returns the "kind/instance" keys of every load, in call order.
func (s *SimulatedSDK) Loads() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loads...)
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
