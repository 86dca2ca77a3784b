package adcolony

import "github.com/prebid/mediation-adapters/errortypes"

var notFilledReasons = map[NotFilledReason]errortypes.ErrorCode{
	ReasonNoFill:             errortypes.NetworkNoFill,
	ReasonZoneInvalid:        errortypes.AdapterConfigurationError,
	ReasonZoneNotConfigured:  errortypes.AdapterConfigurationError,
	ReasonRequestTimeout:     errortypes.NetworkTimeout,
	ReasonNetworkUnavailable: errortypes.NoConnection,
	ReasonSDKNotConfigured:   errortypes.NetworkInvalidState,
}

func translate(reason NotFilledReason) errortypes.ErrorCode {
	if code, ok := notFilledReasons[reason]; ok {
		return code
	}
	return errortypes.Unspecified
}
