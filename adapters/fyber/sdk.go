package fyber

// InitStatus is reported once by Initialize.
type InitStatus int

const (
	SuccessfullyInitialized InitStatus = iota
	FailedNoKitsDetected
	Failed
	InvalidAppID
)

func (s InitStatus) String() string {
	switch s {
	case SuccessfullyInitialized:
		return "SUCCESSFULLY"
	case FailedNoKitsDetected:
		return "FAILED_NO_KITS_DETECTED"
	case Failed:
		return "FAILED"
	case InvalidAppID:
		return "INVALID_APP_ID"
	}
	return "UNKNOWN"
}

// ErrorCode is the SDK's InneractiveErrorCode.
type ErrorCode string

const (
	NoFill                       ErrorCode = "NO_FILL"
	ConnectionError              ErrorCode = "CONNECTION_ERROR"
	ConnectionTimeout            ErrorCode = "CONNECTION_TIMEOUT"
	LoadTimeout                  ErrorCode = "LOAD_TIMEOUT"
	InFlightTimeout              ErrorCode = "IN_FLIGHT_TIMEOUT"
	ServerInvalidResponse        ErrorCode = "SERVER_INVALID_RESPONSE"
	ServerInternalError          ErrorCode = "SERVER_INTERNAL_ERROR"
	ErrorConfigurationMismatch   ErrorCode = "ERROR_CONFIGURATION_MISMATCH"
	ErrorConfigurationNoSuchSpot ErrorCode = "ERROR_CONFIGURATION_NO_SUCH_SPOT"
	SpotDisabled                 ErrorCode = "SPOT_DISABLED"
	UnsupportedSpot              ErrorCode = "UNSUPPORTED_SPOT"
	UnknownAppID                 ErrorCode = "UNKNOWN_APP_ID"
	NonSecureContentDetected     ErrorCode = "NON_SECURE_CONTENT_DETECTED"
	CancelledRequest             ErrorCode = "CANCELLED"
	Unspecified                  ErrorCode = "UNSPECIFIED"
)

// RequestListener learns whether the ad request succeeded. A successful request does not mean
// the ad content is ready to show; the SDK has no callback for that.
type RequestListener interface {
	OnInneractiveSuccessfulAdRequest(spot AdSpot)
	OnInneractiveFailedAdRequest(spot AdSpot, code ErrorCode)
}

type FullscreenListener interface {
	OnAdImpression(spot AdSpot)
	OnAdClicked(spot AdSpot)
	OnAdRewarded(spot AdSpot)
	OnAdShowFailed(spot AdSpot, code ErrorCode)
	OnAdDismissed(spot AdSpot)
}

// AdSpot is a single ad request. Spots are not reused.
type AdSpot interface {
	SetRequestListener(l RequestListener)
	RequestAd(spotID string)
	IsReady() bool
	Show(l FullscreenListener)
	Destroy()
}

// SDK is the part of the Fyber Marketplace SDK the adapter uses.
type SDK interface {
	Initialize(appID string, done func(status InitStatus))
	WasInitialized() bool
	SetGdprConsent(consent bool)
	SetGdprConsentString(consent string)
	CreateSpot() AdSpot
}
