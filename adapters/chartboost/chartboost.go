// Package chartboost adapts the Chartboost SDK. The SDK takes one delegate for the whole
// process and names the ad type and location in every callback, so adapter instances register
// with a router keyed by both.
package chartboost

import (
	"context"
	"sync"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/gdpr"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/sdkinit"
)

var info = adapters.Info{
	Name:        "chartboost",
	DisplayName: "Chartboost",
	Formats:     []mediation.AdFormat{mediation.FormatInterstitial, mediation.FormatRewarded},
	IDParam:     "location",
	InitParams:  []string{"appId", "appSignature"},
}

func Builder(cfg adapters.Config) (adapters.Network, error) {
	return New(cfg, NewSimulatedSDK(cfg.Sim)), nil
}

type Network struct {
	cfg         adapters.Config
	sdk         SDK
	router      *eventrouter.Router
	coordinator *sdkinit.Coordinator

	// rewardLabels holds the configured reward label per rewarded router key.
	rewardLabels sync.Map
}

func New(cfg adapters.Config, sdk SDK) *Network {
	n := &Network{
		cfg:    cfg,
		sdk:    sdk,
		router: cfg.NewRouter(),
	}
	n.coordinator = cfg.NewCoordinator(n.startSDK)
	sdk.SetDelegate(delegate{network: n})
	return n
}

func (n *Network) startSDK(ctx context.Context, serverParams map[string]string, done func(error)) {
	n.sdk.StartWithAppID(serverParams["appId"], serverParams["appSignature"], func(err *StartError) {
		if err != nil {
			done(&errortypes.NetworkFailure{Message: err.Error(), ErrorCode: translateStart(err)})
			return
		}
		done(nil)
	})
}

func (n *Network) Info() adapters.Info {
	return info
}

func (n *Network) NewAdapter() mediation.Adapter {
	return &adapter{
		Lifecycle: n.cfg.NewLifecycle(),
		network:   n,
	}
}

func (n *Network) Status() adapters.Status {
	return adapters.Status{
		Network:    info.Name,
		SDK:        n.coordinator.State().String(),
		Pending:    n.coordinator.Pending(),
		Placements: n.router.IDs(),
	}
}

func (n *Network) Close() {
	n.coordinator.Reset()
}

func (n *Network) updateConsent(d gdpr.Decision) {
	if d.Applies != gdpr.SignalYes {
		return
	}
	consent := GDPRNonBehavioral
	if d.PersonalizedAds {
		consent = GDPRBehavioral
	}
	n.sdk.AddDataUseConsent(consent)
}

func (n *Network) rewardLabel(key string) string {
	if label, ok := n.rewardLabels.Load(key); ok {
		return label.(string)
	}
	return mediation.NoRewardLabel
}

// routerKey names an ad type and location pair. The SDK keeps interstitials and rewarded
// videos apart, so the same location may be in flight once for each.
func routerKey(adType AdType, location string) string {
	return adType.String() + "/" + location
}

func adTypeOf(format mediation.AdFormat) AdType {
	if format == mediation.FormatRewarded {
		return Rewarded
	}
	return Interstitial
}

type adapter struct {
	*adapters.Lifecycle
	network  *Network
	adType   AdType
	location string
}

func (a *adapter) NetworkName() string {
	return info.Name
}

func (a *adapter) CheckAndInitializeSDK(ctx context.Context, data mediation.AdData) (bool, error) {
	return adapters.CheckAndInitialize(ctx, a.network.cfg, a.network.coordinator, data, info.InitParams...)
}

func (a *adapter) Load(ctx context.Context, data mediation.AdData, listener mediation.LoadListener) error {
	requestID, err := a.BeginLoad(data, listener)
	if err != nil {
		return err
	}
	serverParams, err := a.network.cfg.ServerParams(data)
	if err != nil {
		return a.Reject(err)
	}

	a.adType = adTypeOf(data.Format)
	a.location = serverParams["location"]
	if a.location == "" {
		a.location = DefaultLocation
	}
	key := routerKey(a.adType, a.location)
	if a.adType == Rewarded {
		a.network.rewardLabels.Store(key, serverParams["rewardLabel"])
	}
	a.network.updateConsent(a.network.cfg.Consent(data))

	a.OnRelease(func() { a.network.coordinator.Cancel(requestID) })
	a.network.coordinator.Ensure(ctx, requestID, serverParams, func(err error) {
		if err != nil {
			a.Post(events.NewLoadFailed(errortypes.ReadCode(err)))
			return
		}
		if !a.AttachIfLoading(func() *eventrouter.Registration {
			return a.network.router.Register(key, a.Lifecycle)
		}) {
			return
		}
		if a.network.sdk.HasAd(a.adType, a.location) {
			a.network.router.Dispatch(key, events.NewLoaded())
			return
		}
		a.network.sdk.Cache(a.adType, a.location)
	})
	return nil
}

func (a *adapter) Show(listener mediation.InteractionListener) error {
	if err := a.BeginShow(listener); err != nil {
		return err
	}
	if !a.network.sdk.HasAd(a.adType, a.location) {
		a.Post(events.NewError(errortypes.AdShowError))
		return nil
	}
	a.network.sdk.Show(a.adType, a.location)
	return nil
}

func (a *adapter) Invalidate() {
	a.Destroy()
}

// delegate is the one Delegate handed to the SDK.
type delegate struct {
	network *Network
}

func (d delegate) dispatch(adType AdType, location string, e events.Event) {
	d.network.router.Dispatch(routerKey(adType, location), e)
}

func (d delegate) DidCacheAd(adType AdType, location string) {
	d.dispatch(adType, location, events.NewLoaded())
}

func (d delegate) DidFailToLoadAd(adType AdType, location string, err CBImpressionError) {
	d.dispatch(adType, location, events.NewLoadFailed(translate(err)))
}

// DidDisplayAd is the only display signal the SDK gives, so it also counts as the impression.
func (d delegate) DidDisplayAd(adType AdType, location string) {
	d.dispatch(adType, location, events.NewShown())
	d.dispatch(adType, location, events.NewImpression())
}

func (d delegate) DidFailToShowAd(adType AdType, location string, err CBImpressionError) {
	d.dispatch(adType, location, events.NewError(translate(err)))
}

func (d delegate) DidClickAd(adType AdType, location string) {
	d.dispatch(adType, location, events.NewClicked())
}

func (d delegate) DidDismissAd(adType AdType, location string) {
	d.dispatch(adType, location, events.NewDismissed())
}

func (d delegate) DidCompleteRewardedVideo(location string, reward int) {
	key := routerKey(Rewarded, location)
	d.network.router.Dispatch(key, events.NewRewarded(reward, d.network.rewardLabel(key)))
}
