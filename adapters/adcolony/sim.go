package adcolony

import (
	"sync"

	"github.com/prebid/mediation-adapters/sdksim"
)

// Simulated reward granted by every completed zone.
const (
	SimulatedRewardName   = "credits"
	SimulatedRewardAmount = 25
)

// SimulatedSDK is an in-process stand-in for the AdColony SDK.
type SimulatedSDK struct {
	opts sdksim.Options

	mu         sync.Mutex
	configures [][]string
	zones      map[string]bool
	appOptions AppOptions
	rewards    RewardListener
	requests   []string
}

func NewSimulatedSDK(opts sdksim.Options) *SimulatedSDK {
	return &SimulatedSDK{
		opts:  opts.WithDefaults(),
		zones: make(map[string]bool),
	}
}

func (s *SimulatedSDK) Configure(appID string, opts AppOptions, zoneIDs ...string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configures = append(s.configures, append([]string(nil), zoneIDs...))
	if appID == "" || s.opts.Behavior.InitFails() {
		return false
	}
	s.appOptions = opts
	for _, zone := range zoneIDs {
		s.zones[zone] = true
	}
	return true
}

func (s *SimulatedSDK) SetAppOptions(opts AppOptions) {
	s.mu.Lock()
	s.appOptions = opts
	s.mu.Unlock()
}

func (s *SimulatedSDK) SetRewardListener(l RewardListener) {
	s.mu.Lock()
	s.rewards = l
	s.mu.Unlock()
}

func (s *SimulatedSDK) RequestInterstitial(zoneID string, l InterstitialListener) {
	s.mu.Lock()
	s.requests = append(s.requests, zoneID)
	configured := len(s.configures) > 0
	known := s.zones[zoneID]
	s.mu.Unlock()

	switch {
	case !configured:
		s.opts.Dispatcher.Dispatch(func() { l.OnRequestNotFilled(zoneID, ReasonSDKNotConfigured) })
		return
	case !known:
		s.opts.Dispatcher.Dispatch(func() { l.OnRequestNotFilled(zoneID, ReasonZoneNotConfigured) })
		return
	}

	outcome := s.opts.Behavior.Next()
	s.opts.Dispatcher.Dispatch(func() {
		switch outcome {
		case sdksim.NoFill:
			l.OnRequestNotFilled(zoneID, ReasonNoFill)
			return
		case sdksim.Timeout:
			l.OnRequestNotFilled(zoneID, ReasonRequestTimeout)
			return
		case sdksim.NetworkError:
			l.OnRequestNotFilled(zoneID, ReasonNetworkUnavailable)
			return
		case sdksim.ConfigError:
			l.OnRequestNotFilled(zoneID, ReasonZoneInvalid)
			return
		}
		ad := &SimulatedInterstitial{sdk: s, zoneID: zoneID, outcome: outcome, listener: l}
		l.OnRequestFilled(ad)
		if outcome == sdksim.Expire {
			ad.expire()
		}
	})
}

// Configures returns the zone lists passed to every Configure call.
func (s *SimulatedSDK) Configures() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]string(nil), s.configures...)
}

// Requests returns the zones requested, in call order.
func (s *SimulatedSDK) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *SimulatedSDK) AppOptions() AppOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appOptions
}

func (s *SimulatedSDK) rewardListener() RewardListener {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewards
}

// SimulatedInterstitial is the Interstitial of SimulatedSDK.
type SimulatedInterstitial struct {
	sdk      *SimulatedSDK
	zoneID   string
	outcome  sdksim.Outcome
	listener InterstitialListener

	mu        sync.Mutex
	expired   bool
	shown     bool
	destroyed bool
}

func (ad *SimulatedInterstitial) ZoneID() string {
	return ad.zoneID
}

func (ad *SimulatedInterstitial) expire() {
	ad.mu.Lock()
	ad.expired = true
	ad.mu.Unlock()
	ad.listener.OnExpiring(ad)
}

func (ad *SimulatedInterstitial) Show() bool {
	ad.mu.Lock()
	if ad.expired || ad.shown || ad.destroyed || ad.outcome == sdksim.ShowError {
		ad.mu.Unlock()
		return false
	}
	ad.shown = true
	ad.mu.Unlock()

	ad.sdk.opts.Dispatcher.Dispatch(func() {
		ad.listener.OnOpened(ad)
		if ad.sdk.opts.Behavior.Clicks() {
			ad.listener.OnClicked(ad)
		}
		if rewards := ad.sdk.rewardListener(); rewards != nil {
			rewards.OnReward(Reward{
				ZoneID:  ad.zoneID,
				Name:    SimulatedRewardName,
				Amount:  SimulatedRewardAmount,
				Success: true,
			})
		}
		ad.listener.OnClosed(ad)
	})
	return true
}

func (ad *SimulatedInterstitial) IsExpired() bool {
	ad.mu.Lock()
	defer ad.mu.Unlock()
	return ad.expired
}

func (ad *SimulatedInterstitial) Destroy() bool {
	ad.mu.Lock()
	defer ad.mu.Unlock()
	if ad.destroyed {
		return false
	}
	ad.destroyed = true
	return true
}

func (ad *SimulatedInterstitial) Destroyed() bool {
	ad.mu.Lock()
	defer ad.mu.Unlock()
	return ad.destroyed
}
