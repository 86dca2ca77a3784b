package mintegral

// Kind separates the SDK's fullscreen handler families.
type Kind int

const (
	InterstitialVideo Kind = iota
	RewardVideo
)

func (k Kind) String() string {
	if k == RewardVideo {
		return "reward"
	}
	return "interstitial"
}

// MBridgeIds identifies the ad unit a callback is about.
type MBridgeIds struct {
	PlacementID string
	UnitID      string
}

// RewardInfo is reported when a fullscreen ad closes.
type RewardInfo struct {
	IsCompleteView bool
	RewardName     string
	RewardAmount   string
}

type InitCallback interface {
	OnInitSuccess()
	OnInitFail(msg string)
}

// VideoListener receives the events of a Handler. Failures carry a free text message rather
// than a code.
type VideoListener interface {
	OnVideoLoadSuccess(ids MBridgeIds)
	OnVideoLoadFail(ids MBridgeIds, msg string)
	OnAdShow(ids MBridgeIds)
	OnShowFail(ids MBridgeIds, msg string)
	OnVideoAdClicked(ids MBridgeIds)
	OnAdClose(ids MBridgeIds, info RewardInfo)
}

// Handler loads and shows fullscreen ads for one unit. Handlers are meant to be created once
// per unit and reused.
type Handler interface {
	SetListener(l VideoListener)
	Load()
	IsReady() bool
	Show()
}

// BannerSize is one of the SDK's fixed banner sizes.
type BannerSize int

const (
	StandardBanner BannerSize = iota
	LargeBanner
	MediumRectangle
)

type BannerListener interface {
	OnLoadSuccessed(ids MBridgeIds)
	OnLoadFailed(ids MBridgeIds, msg string)
	OnLogImpression(ids MBridgeIds)
	OnClick(ids MBridgeIds)
	OnCloseBanner(ids MBridgeIds)
}

type BannerView interface {
	SetListener(l BannerListener)
	Load()
	Release()
}

// SDK is the part of the Mintegral SDK the adapter uses.
type SDK interface {
	Init(appID, appKey string, cb InitCallback)
	SetConsentStatus(personalized bool)
	NewHandler(kind Kind, placementID, unitID string) Handler
	NewBannerView(placementID, unitID string, size BannerSize) BannerView
}
