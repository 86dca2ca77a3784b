package adcolony

// AppOptions are passed to Configure and may be updated later with SetAppOptions.
type AppOptions struct {
	GDPRRequired      bool
	GDPRConsentString string
	// Options carries free form key/value options from the server params.
	Options map[string]string
}

// Reward is handed to the global reward listener when a rewarded zone completes.
type Reward struct {
	ZoneID  string
	Name    string
	Amount  int
	Success bool
}

// RewardListener is process wide; rewards name the zone they belong to.
type RewardListener interface {
	OnReward(r Reward)
}

// NotFilledReason is why a request was not filled.
type NotFilledReason int

const (
	ReasonNoFill NotFilledReason = iota
	ReasonZoneInvalid
	ReasonZoneNotConfigured
	ReasonRequestTimeout
	ReasonNetworkUnavailable
	ReasonSDKNotConfigured
)

// Interstitial is one filled ad. It can be shown once.
type Interstitial interface {
	ZoneID() string
	Show() bool
	IsExpired() bool
	Destroy() bool
}

// InterstitialListener is supplied per request.
type InterstitialListener interface {
	OnRequestFilled(ad Interstitial)
	OnRequestNotFilled(zoneID string, reason NotFilledReason)
	OnOpened(ad Interstitial)
	OnClicked(ad Interstitial)
	OnExpiring(ad Interstitial)
	OnClosed(ad Interstitial)
}

// SDK is the part of the AdColony SDK the adapter uses. Configure is synchronous and must list
// every zone that will be requested; calling it again with a longer list adds zones.
type SDK interface {
	Configure(appID string, opts AppOptions, zoneIDs ...string) bool
	SetAppOptions(opts AppOptions)
	SetRewardListener(l RewardListener)
	RequestInterstitial(zoneID string, l InterstitialListener)
}
