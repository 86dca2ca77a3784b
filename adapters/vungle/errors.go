package vungle

import "github.com/prebid/mediation-adapters/errortypes"

var errorCodes = map[ErrorCode]errortypes.ErrorCode{
	NoServe:                         errortypes.NetworkNoFill,
	UnknownError:                    errortypes.Unspecified,
	ConfigurationError:              errortypes.AdapterConfigurationError,
	AdExpired:                       errortypes.ExpiredAd,
	MissingRequiredArgumentsForInit: errortypes.AdapterConfigurationError,
	OperationOngoing:                errortypes.NetworkInvalidState,
	NotInitialized:                  errortypes.NetworkInvalidState,
	AdUnableToPlay:                  errortypes.AdShowError,
	AdFailedToDownload:              errortypes.NetworkError,
	PlacementNotFound:               errortypes.AdapterConfigurationError,
	ServerRetryError:                errortypes.NetworkError,
	NetworkUnreachable:              errortypes.NoConnection,
	RequestTimeout:                  errortypes.NetworkTimeout,
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
