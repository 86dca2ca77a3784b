package vungle

import "fmt"

// ErrorCode is the Vungle SDK's exception code.
type ErrorCode int

const (
	NoServe                         ErrorCode = 1
	UnknownError                    ErrorCode = 2
	ConfigurationError              ErrorCode = 3
	AdExpired                       ErrorCode = 4
	MissingRequiredArgumentsForInit ErrorCode = 6
	OperationOngoing                ErrorCode = 8
	NotInitialized                  ErrorCode = 9
	AdUnableToPlay                  ErrorCode = 10
	AdFailedToDownload              ErrorCode = 11
	PlacementNotFound               ErrorCode = 13
	ServerRetryError                ErrorCode = 14
	NetworkUnreachable              ErrorCode = 20
	RequestTimeout                  ErrorCode = 21
)

// Error is what the SDK hands to its error callbacks.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("vungle error %d: %s", e.Code, e.Message)
}

type ConsentStatus int

const (
	ConsentOptedIn ConsentStatus = iota
	ConsentOptedOut
)

// ConsentMessageVersion is reported with every consent update.
const ConsentMessageVersion = "1.0.0"

// AdConfig tunes one ad request or playback.
type AdConfig struct {
	Muted   bool
	Ordinal int
	UserID  string
}

type InitCallback interface {
	OnSuccess()
	OnError(err *Error)
}

// LoadAdCallback and PlayAdCallback are the SDK's global callback sinks: every placement's
// events arrive through the one instance passed in, keyed by placement ID.
type LoadAdCallback interface {
	OnAdLoad(placementID string)
	OnError(placementID string, err *Error)
}

type PlayAdCallback interface {
	OnAdStart(placementID string)
	OnAdViewed(placementID string)
	OnAdClick(placementID string)
	OnAdRewarded(placementID string)
	OnAdEnd(placementID string)
	OnError(placementID string, err *Error)
}

// SDK is the part of the Vungle SDK the adapter uses. Init is asynchronous; loads issued
// before it completes fail with NotInitialized.
type SDK interface {
	Init(appID string, cb InitCallback)
	IsInitialized() bool
	UpdateConsentStatus(status ConsentStatus, version string)
	LoadAd(placementID string, cfg AdConfig, cb LoadAdCallback)
	CanPlayAd(placementID string) bool
	PlayAd(placementID string, cfg AdConfig, cb PlayAdCallback)
}
