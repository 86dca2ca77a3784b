package ironsource

import "github.com/prebid/mediation-adapters/errortypes"

var errorCodes = map[int]errortypes.ErrorCode{
	ErrInitFailed:              errortypes.AdapterConfigurationError,
	ErrNoAdsToShow:             errortypes.NetworkNoFill,
	ErrServerResponseFailed:    errortypes.NetworkError,
	ErrNoInternetConnection:    errortypes.NoConnection,
	ErrPlacementCapped:         errortypes.NetworkNoFill,
	ErrShowCalledDuringShow:    errortypes.NetworkInvalidState,
	ErrLoadAlreadyInProgress:   errortypes.NetworkInvalidState,
	ErrLoadTimedOut:            errortypes.NetworkTimeout,
	ErrInstanceNotReadyForShow: errortypes.AdShowError,
}

func translate(err *Error) errortypes.ErrorCode {
	if err == nil {
		return errortypes.Unspecified
	}
	if code, ok := errorCodes[err.Code]; ok {
		return code
	}
	return errortypes.Unspecified
}
