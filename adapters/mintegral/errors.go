package mintegral

import (
	"strings"

	"github.com/prebid/mediation-adapters/errortypes"
)

// The SDK only reports free text, so failures are classified by the first matching fragment.
var messageCodes = []struct {
	fragment string
	code     errortypes.ErrorCode
}{
	{"exception_return_empty", errortypes.NetworkNoFill},
	{"no ads available", errortypes.NetworkNoFill},
	{"no fill", errortypes.NetworkNoFill},
	{"expired", errortypes.ExpiredAd},
	{"timeout", errortypes.NetworkTimeout},
	{"net broken", errortypes.NoConnection},
	{"network", errortypes.NetworkError},
	{"appid", errortypes.AdapterConfigurationError},
	{"appkey", errortypes.AdapterConfigurationError},
	{"unitid", errortypes.AdapterConfigurationError},
	{"not initialized", errortypes.NetworkInvalidState},
	{"current unit is loading", errortypes.NetworkInvalidState},
}

func translate(msg string, fallback errortypes.ErrorCode) errortypes.ErrorCode {
	msg = strings.ToLower(msg)
	for _, m := range messageCodes {
		if strings.Contains(msg, m.fragment) {
			return m.code
		}
	}
	return fallback
}
