package ironsource

import "fmt"

// Error codes reported by the demand-only API.
const (
	ErrInitFailed              = 508
	ErrNoAdsToShow             = 509
	ErrServerResponseFailed    = 510
	ErrNoInternetConnection    = 520
	ErrPlacementCapped         = 524
	ErrShowCalledDuringShow    = 1022
	ErrLoadAlreadyInProgress   = 1052
	ErrLoadTimedOut            = 1055
	ErrInstanceNotReadyForShow = 1056
)

type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("ironsource error %d: %s", e.Code, e.Message)
}

type AdUnit string

const (
	AdUnitInterstitial  AdUnit = "INTERSTITIAL"
	AdUnitRewardedVideo AdUnit = "REWARDED_VIDEO"
)

// InterstitialListener receives the events of every demand-only interstitial instance.
type InterstitialListener interface {
	OnInterstitialAdReady(instanceID string)
	OnInterstitialAdLoadFailed(instanceID string, err *Error)
	OnInterstitialAdOpened(instanceID string)
	OnInterstitialAdShowFailed(instanceID string, err *Error)
	OnInterstitialAdClicked(instanceID string)
	OnInterstitialAdClosed(instanceID string)
}

// RewardedVideoListener receives the events of every demand-only rewarded instance.
type RewardedVideoListener interface {
	OnRewardedVideoAdLoadSuccess(instanceID string)
	OnRewardedVideoAdLoadFailed(instanceID string, err *Error)
	OnRewardedVideoAdOpened(instanceID string)
	OnRewardedVideoAdShowFailed(instanceID string, err *Error)
	OnRewardedVideoAdClicked(instanceID string)
	OnRewardedVideoAdRewarded(instanceID string)
	OnRewardedVideoAdClosed(instanceID string)
}

// SDK is the demand-only part of the IronSource SDK. InitISDemandOnly returns at once and
// reports nothing; an initialization problem surfaces as a failure of the next load.
type SDK interface {
	InitISDemandOnly(appKey string, units ...AdUnit)
	SetConsent(consent bool)
	SetISDemandOnlyInterstitialListener(l InterstitialListener)
	SetISDemandOnlyRewardedVideoListener(l RewardedVideoListener)
	LoadISDemandOnlyInterstitial(instanceID string)
	IsISDemandOnlyInterstitialReady(instanceID string) bool
	ShowISDemandOnlyInterstitial(instanceID string)
	LoadISDemandOnlyRewardedVideo(instanceID string)
	IsISDemandOnlyRewardedVideoAvailable(instanceID string) bool
	ShowISDemandOnlyRewardedVideo(instanceID string)
}
