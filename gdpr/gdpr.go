// Package gdpr turns the mediator's GDPR signal and TCF consent string into the consent flags
// network SDKs expect.
package gdpr

import (
	"github.com/prebid/go-gdpr/consentconstants"
)

// storageAccess is TCF purpose 1. Networks treat it as the gate for personalized ads.
const storageAccess = consentconstants.Purpose(1)

// Decision is the outcome of evaluating one request's GDPR signals.
type Decision struct {
	// Applies is the normalized signal: SignalYes or SignalNo.
	Applies Signal
	// ConsentString is the raw TCF string, passed through to networks that take it verbatim.
	ConsentString string
	// PersonalizedAds reports whether the user may receive personalized ads.
	PersonalizedAds bool
	// ListVersion is the vendor list version of a parsed consent string.
	ListVersion uint16
	// Err is set when GDPR applies but the consent string could not be used.
	Err error
}

// Evaluate decides whether personalized ads are permitted. An ambiguous signal is normalized
// with defaultValue ("0" or "1"). When GDPR applies, a missing or malformed consent string
// denies personalization.
func Evaluate(rawSignal, consent, defaultValue string) Decision {
	signal, err := SignalParse(rawSignal)
	signal = SignalNormalize(signal, defaultValue)
	d := Decision{Applies: signal, ConsentString: consent, Err: err}

	if signal == SignalNo {
		d.PersonalizedAds = true
		return d
	}
	if consent == "" {
		return d
	}

	pc, parseErr := parseConsent(consent)
	if parseErr != nil {
		d.Err = parseErr
		return d
	}
	d.ListVersion = pc.listVersion
	d.PersonalizedAds = pc.consents.PurposeAllowed(storageAccess)
	return d
}

// ErrorMalformedConsent is returned when the consent string cannot be parsed or uses an
// unsupported TCF version.
type ErrorMalformedConsent struct {
	Consent string
	Cause   error
}

func (e *ErrorMalformedConsent) Error() string {
	return "malformed consent string " + e.Consent + ": " + e.Cause.Error()
}
