package fyber

import "github.com/prebid/mediation-adapters/errortypes"

var errorCodes = map[ErrorCode]errortypes.ErrorCode{
	NoFill:                       errortypes.NetworkNoFill,
	ConnectionError:              errortypes.NoConnection,
	ConnectionTimeout:            errortypes.NetworkTimeout,
	LoadTimeout:                  errortypes.NetworkTimeout,
	InFlightTimeout:              errortypes.NetworkTimeout,
	ServerInvalidResponse:        errortypes.NetworkError,
	ServerInternalError:          errortypes.NetworkError,
	ErrorConfigurationMismatch:   errortypes.AdapterConfigurationError,
	ErrorConfigurationNoSuchSpot: errortypes.AdapterConfigurationError,
	SpotDisabled:                 errortypes.AdapterConfigurationError,
	UnsupportedSpot:              errortypes.AdapterConfigurationError,
	UnknownAppID:                 errortypes.AdapterConfigurationError,
	NonSecureContentDetected:     errortypes.AdShowError,
	CancelledRequest:             errortypes.NetworkInvalidState,
	Unspecified:                  errortypes.Unspecified,
}

var initStatuses = map[InitStatus]errortypes.ErrorCode{
	FailedNoKitsDetected: errortypes.InternalError,
	Failed:               errortypes.NetworkError,
	InvalidAppID:         errortypes.AdapterConfigurationError,
}

func translate(code ErrorCode) errortypes.ErrorCode {
	if c, ok := errorCodes[code]; ok {
		return c
	}
	return errortypes.Unspecified
}

func translateInit(status InitStatus) errortypes.ErrorCode {
	if c, ok := initStatuses[status]; ok {
		return c
	}
	return errortypes.InternalError
}
