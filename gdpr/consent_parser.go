package gdpr

import (
	"fmt"

	"github.com/prebid/go-gdpr/api"
	"github.com/prebid/go-gdpr/vendorconsent"
)

// parsedConsent holds the parts of a TCF consent string networks care about.
type parsedConsent struct {
	encodingVersion uint8
	listVersion     uint16
	consents        api.VendorConsents
}

// parseConsent parses and validates the specified consent string. Only TCF v2 strings are
// accepted.
func parseConsent(consent string) (parsedConsent, error) {
	pc := parsedConsent{}

	parsed, err := vendorconsent.ParseString(consent)
	if err != nil {
		return pc, &ErrorMalformedConsent{
			Consent: consent,
			Cause:   err,
		}
	}

	if err := validateVersion(parsed); err != nil {
		return pc, &ErrorMalformedConsent{
			Consent: consent,
			Cause:   err,
		}
	}

	pc.encodingVersion = parsed.Version()
	pc.listVersion = parsed.VendorListVersion()
	pc.consents = parsed
	return pc, nil
}

func validateVersion(pc api.VendorConsents) error {
	if version := pc.Version(); version != 2 {
		return fmt.Errorf("unsupported encoding format version: %d", version)
	}
	return nil
}
