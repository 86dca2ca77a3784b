package chartboost

import "github.com/prebid/mediation-adapters/errortypes"

var impressionErrors = map[CBImpressionError]errortypes.ErrorCode{
	ErrInternal:                              errortypes.InternalError,
	ErrInternetUnavailable:                   errortypes.NoConnection,
	ErrTooManyConnections:                    errortypes.NetworkError,
	ErrWrongOrientation:                      errortypes.AdShowError,
	ErrFirstSessionInterstitialsDisabled:     errortypes.NetworkNoFill,
	ErrNetworkFailure:                        errortypes.NetworkError,
	ErrNoAdFound:                             errortypes.NetworkNoFill,
	ErrSessionNotStarted:                     errortypes.NetworkInvalidState,
	ErrImpressionAlreadyVisible:              errortypes.NetworkInvalidState,
	ErrNoHostActivity:                        errortypes.NetworkInvalidState,
	ErrUserCancellation:                      errortypes.AdShowError,
	ErrInvalidLocation:                       errortypes.AdapterConfigurationError,
	ErrVideoUnavailable:                      errortypes.NetworkNoFill,
	ErrVideoIDMissing:                        errortypes.NetworkError,
	ErrErrorPlayingVideo:                     errortypes.VideoPlaybackError,
	ErrInvalidResponse:                       errortypes.NetworkError,
	ErrAssetsDownloadFailure:                 errortypes.NetworkError,
	ErrErrorCreatingView:                     errortypes.AdShowError,
	ErrErrorDisplayingView:                   errortypes.AdShowError,
	ErrIncompatibleAPIVersion:                errortypes.AdapterConfigurationError,
	ErrErrorLoadingWebView:                   errortypes.AdShowError,
	ErrAssetPrefetchInProgress:               errortypes.NetworkInvalidState,
	ErrActivityMissingInManifest:             errortypes.AdapterConfigurationError,
	ErrEmptyLocalVideoList:                   errortypes.NetworkNoFill,
	ErrEndPointDisabled:                      errortypes.AdapterConfigurationError,
	ErrHardwareAccelerationDisabled:          errortypes.AdShowError,
	ErrPendingImpressionError:                errortypes.NetworkInvalidState,
	ErrVideoUnavailableForCurrentOrientation: errortypes.AdShowError,
	ErrAssetMissing:                          errortypes.ExpiredAd,
	ErrWebViewPageLoadTimeout:                errortypes.NetworkTimeout,
	ErrWebViewClientReceivedError:            errortypes.NetworkError,
	ErrInternetUnavailableAtShow:             errortypes.NoConnection,
}

var startErrors = map[StartErrorCode]errortypes.ErrorCode{
	StartUnknown:            errortypes.InternalError,
	StartInvalidCredentials: errortypes.AdapterConfigurationError,
	StartNetworkFailure:     errortypes.NoConnection,
	StartServerError:        errortypes.NetworkError,
}

func translate(err CBImpressionError) errortypes.ErrorCode {
	if code, ok := impressionErrors[err]; ok {
		return code
	}
	return errortypes.Unspecified
}

func translateStart(err *StartError) errortypes.ErrorCode {
	if err == nil {
		return errortypes.Unspecified
	}
	if code, ok := startErrors[err.Code]; ok {
		return code
	}
	return errortypes.Unspecified
}
