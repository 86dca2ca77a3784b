package errortypes

import "errors"

// ErrorCode is the mediator's own error enumeration. Every network adapter translates its vendor
// taxonomy into one of these values through a static table.
type ErrorCode int

const (
	Unspecified ErrorCode = iota
	NetworkNoFill
	NetworkTimeout
	NetworkInvalidState
	NetworkError
	NoConnection
	AdapterConfigurationError
	AdapterNotFound
	AdShowError
	VideoPlaybackError
	ExpiredAd
	InternalError
	RequestSuperseded
)

var codeNames = map[ErrorCode]string{
	Unspecified:               "UNSPECIFIED",
	NetworkNoFill:             "NETWORK_NO_FILL",
	NetworkTimeout:            "NETWORK_TIMEOUT",
	NetworkInvalidState:       "NETWORK_INVALID_STATE",
	NetworkError:              "NETWORK_ERROR",
	NoConnection:              "NO_CONNECTION",
	AdapterConfigurationError: "ADAPTER_CONFIGURATION_ERROR",
	AdapterNotFound:           "ADAPTER_NOT_FOUND",
	AdShowError:               "AD_SHOW_ERROR",
	VideoPlaybackError:        "VIDEO_PLAYBACK_ERROR",
	ExpiredAd:                 "EXPIRED",
	InternalError:             "INTERNAL_ERROR",
	RequestSuperseded:         "REQUEST_SUPERSEDED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return codeNames[Unspecified]
}

// Coder provides an error code with severity.
type Coder interface {
	Code() ErrorCode
	Severity() Severity
}

// ReadCode returns the error code carried by err or any error it wraps, or Unspecified if there is none.
func ReadCode(err error) ErrorCode {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return Unspecified
}
