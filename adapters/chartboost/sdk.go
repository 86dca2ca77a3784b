package chartboost

import "fmt"

// AdType selects which of the SDK's fullscreen ad kinds a call is about.
type AdType int

const (
	Interstitial AdType = iota
	Rewarded
)

func (t AdType) String() string {
	switch t {
	case Interstitial:
		return "interstitial"
	case Rewarded:
		return "rewarded"
	}
	return fmt.Sprintf("adtype(%d)", int(t))
}

// DefaultLocation is used when the server params name none.
const DefaultLocation = "Default"

// CBImpressionError is the error the SDK reports to its delegate for load and show failures.
type CBImpressionError int

const (
	ErrInternal CBImpressionError = iota
	ErrInternetUnavailable
	ErrTooManyConnections
	ErrWrongOrientation
	ErrFirstSessionInterstitialsDisabled
	ErrNetworkFailure
	ErrNoAdFound
	ErrSessionNotStarted
	ErrImpressionAlreadyVisible
	ErrNoHostActivity
	ErrUserCancellation
	ErrInvalidLocation
	ErrVideoUnavailable
	ErrVideoIDMissing
	ErrErrorPlayingVideo
	ErrInvalidResponse
	ErrAssetsDownloadFailure
	ErrErrorCreatingView
	ErrErrorDisplayingView
	ErrIncompatibleAPIVersion
	ErrErrorLoadingWebView
	ErrAssetPrefetchInProgress
	ErrActivityMissingInManifest
	ErrEmptyLocalVideoList
	ErrEndPointDisabled
	ErrHardwareAccelerationDisabled
	ErrPendingImpressionError
	ErrVideoUnavailableForCurrentOrientation
	ErrAssetMissing
	ErrWebViewPageLoadTimeout
	ErrWebViewClientReceivedError
	ErrInternetUnavailableAtShow
)

// StartErrorCode is why StartWithAppID failed.
type StartErrorCode int

const (
	StartUnknown StartErrorCode = iota
	StartInvalidCredentials
	StartNetworkFailure
	StartServerError
)

type StartError struct {
	Code StartErrorCode
}

func (e *StartError) Error() string {
	switch e.Code {
	case StartInvalidCredentials:
		return "chartboost start failed: invalid credentials"
	case StartNetworkFailure:
		return "chartboost start failed: network failure"
	case StartServerError:
		return "chartboost start failed: server error"
	}
	return "chartboost start failed"
}

type DataUseConsent int

const (
	GDPRNonBehavioral DataUseConsent = iota
	GDPRBehavioral
)

// Delegate receives every ad event of the process. The SDK holds a single delegate; events
// name the ad type and location they belong to.
type Delegate interface {
	DidCacheAd(adType AdType, location string)
	DidFailToLoadAd(adType AdType, location string, err CBImpressionError)
	DidDisplayAd(adType AdType, location string)
	DidFailToShowAd(adType AdType, location string, err CBImpressionError)
	DidClickAd(adType AdType, location string)
	DidDismissAd(adType AdType, location string)
	DidCompleteRewardedVideo(location string, reward int)
}

// SDK is the part of the Chartboost SDK the adapter uses. The SDK caches at most one ad per
// ad type and location.
type SDK interface {
	StartWithAppID(appID, appSignature string, done func(err *StartError))
	IsSDKInitialized() bool
	SetDelegate(d Delegate)
	AddDataUseConsent(consent DataUseConsent)
	Cache(adType AdType, location string)
	HasAd(adType AdType, location string) bool
	Show(adType AdType, location string)
}
