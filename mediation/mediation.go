// Package mediation holds the mediator's side of the adapter contract: the ad request it hands to
// an adapter, and the lifecycle listeners adapters report back to.
package mediation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/prebid/mediation-adapters/errortypes"
)

// AdFormat identifies the kind of ad being requested.
type AdFormat string

const (
	FormatBanner       AdFormat = "banner"
	FormatInterstitial AdFormat = "interstitial"
	FormatRewarded     AdFormat = "rewarded"
)

// Fullscreen reports whether ads of this format are presented with Show.
func (f AdFormat) Fullscreen() bool {
	return f == FormatInterstitial || f == FormatRewarded
}

// AdData is one ad request handed to an adapter by the mediator.
type AdData struct {
	AdUnitID string
	Format   AdFormat
	// ServerParams are the network's configuration keys (appId, placementId, zoneId, ...) as
	// delivered by server-side ad configuration.
	ServerParams map[string]string
	// Extras is the raw JSON blob of local extras set by the publisher app.
	Extras []byte
	// GDPRApplies is the raw "gdpr" flag: "1", "0" or empty when unknown.
	GDPRApplies string
	// ConsentString is the IAB TCF consent string, if any.
	ConsentString string
	Width         int
	Height        int
}

// Param returns a server parameter, trimming surrounding whitespace.
func (d AdData) Param(key string) string {
	return strings.TrimSpace(d.ServerParams[key])
}

// RequireParams returns a BadConfig error naming every key missing from ServerParams.
func (d AdData) RequireParams(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if d.Param(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return &errortypes.BadConfig{
		Message: fmt.Sprintf("missing server params: %s", strings.Join(missing, ", ")),
	}
}

// Reward describes what the user earned for completing a rewarded ad.
type Reward struct {
	Label  string
	Amount int
}

// NoRewardLabel is reported when a network completes an ad without reward information.
const NoRewardLabel = ""

// IsZero reports whether the reward carries neither label nor amount.
func (r Reward) IsZero() bool {
	return r.Label == NoRewardLabel && r.Amount == 0
}

// LoadListener receives the outcome of a load request. Exactly one of its methods is called per
// load.
type LoadListener interface {
	OnAdLoaded()
	OnAdLoadFailed(code errortypes.ErrorCode)
}

// InteractionListener receives everything that happens after a successful load.
type InteractionListener interface {
	OnAdShown()
	OnAdFailed(code errortypes.ErrorCode)
	OnAdClicked()
	OnAdImpression()
	OnAdDismissed()
	OnAdComplete(reward Reward)
}

// Listener is the mediator's full ad lifecycle capability set.
type Listener interface {
	LoadListener
	InteractionListener
}

// Adapter is the contract every network adapter fulfils towards the mediator.
type Adapter interface {
	// NetworkName is the stable network key, e.g. "vungle".
	NetworkName() string
	// CheckAndInitializeSDK starts network SDK initialization if needed. It reports whether the
	// SDK was already initialized.
	CheckAndInitializeSDK(ctx context.Context, data AdData) (bool, error)
	// Load requests an ad. An error is returned only when the request could not be issued at all;
	// otherwise the outcome is reported to listener.
	Load(ctx context.Context, data AdData, listener LoadListener) error
	// Show presents a loaded fullscreen ad.
	Show(listener InteractionListener) error
	// Invalidate releases every resource held for the ad. Callbacks arriving afterwards are dropped.
	Invalidate()
}
