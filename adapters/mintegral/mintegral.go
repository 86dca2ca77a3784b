// Package mintegral adapts the Mintegral SDK. Fullscreen handlers are cached per unit by a
// handler manager and report through a shared listener routed by unit ID; banners get a
// listener of their own per request.
package mintegral

import (
	"context"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/gdpr"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/sdkinit"
)

var info = adapters.Info{
	Name:        "mintegral",
	DisplayName: "Mintegral",
	Formats:     []mediation.AdFormat{mediation.FormatBanner, mediation.FormatInterstitial, mediation.FormatRewarded},
	IDParam:     "unitId",
	InitParams:  []string{"appId", "appKey"},
}

func Builder(cfg adapters.Config) (adapters.Network, error) {
	return New(cfg, NewSimulatedSDK(cfg.Sim)), nil
}

type Network struct {
	cfg         adapters.Config
	sdk         SDK
	router      *eventrouter.Router
	coordinator *sdkinit.Coordinator
	handlers    *handlerManager
}

func New(cfg adapters.Config, sdk SDK) *Network {
	n := &Network{
		cfg:    cfg,
		sdk:    sdk,
		router: cfg.NewRouter(),
	}
	n.coordinator = cfg.NewCoordinator(n.startSDK)
	n.handlers = newHandlerManager(sdk, n.router)
	return n
}

func (n *Network) startSDK(ctx context.Context, serverParams map[string]string, done func(error)) {
	n.sdk.Init(serverParams["appId"], serverParams["appKey"], initCallback{done: done})
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
	n.sdk.SetConsentStatus(d.PersonalizedAds)
}

type initCallback struct {
	done func(error)
}

func (c initCallback) OnInitSuccess() {
	c.done(nil)
}

func (c initCallback) OnInitFail(msg string) {
	c.done(&errortypes.NetworkFailure{
		Message:   "mintegral init failed: " + msg,
		ErrorCode: translate(msg, errortypes.AdapterConfigurationError),
	})
}

type adapter struct {
	*adapters.Lifecycle
	network *Network
	handler Handler
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
	placementID, unitID := serverParams["placementId"], serverParams["unitId"]
	a.network.updateConsent(a.network.cfg.Consent(data))

	a.OnRelease(func() { a.network.coordinator.Cancel(requestID) })
	a.network.coordinator.Ensure(ctx, requestID, serverParams, func(err error) {
		if err != nil {
			a.Post(events.NewLoadFailed(errortypes.ReadCode(err)))
			return
		}
		if data.Format == mediation.FormatBanner {
			a.loadBanner(placementID, unitID, bannerSize(data.Width, data.Height))
			return
		}
		a.loadFullscreen(kindOf(data.Format), placementID, unitID)
	})
	return nil
}

func (a *adapter) loadFullscreen(kind Kind, placementID, unitID string) {
	key := routerKey(kind, unitID)
	handler := a.network.handlers.get(kind, placementID, unitID)
	a.handler = handler
	if !a.AttachIfLoading(func() *eventrouter.Registration {
		return a.network.router.Register(key, a.Lifecycle)
	}) {
		return
	}
	if handler.IsReady() {
		a.network.router.Dispatch(key, events.NewLoaded())
		return
	}
	handler.Load()
}

func (a *adapter) loadBanner(placementID, unitID string, size BannerSize) {
	if a.State() != adapters.Loading {
		return
	}
	view := a.network.sdk.NewBannerView(placementID, unitID, size)
	view.SetListener(bannerListener{lifecycle: a.Lifecycle})
	a.OnRelease(view.Release)
	view.Load()
}

func (a *adapter) Show(listener mediation.InteractionListener) error {
	if err := a.BeginShow(listener); err != nil {
		return err
	}
	if a.handler == nil || !a.handler.IsReady() {
		a.Post(events.NewError(errortypes.AdShowError))
		return nil
	}
	a.handler.Show()
	return nil
}

func (a *adapter) Invalidate() {
	a.Destroy()
}

func kindOf(format mediation.AdFormat) Kind {
	if format == mediation.FormatRewarded {
		return RewardVideo
	}
	return InterstitialVideo
}

// bannerSize picks the SDK size matching the requested dimensions, falling back to the
// standard 320x50 banner.
func bannerSize(width, height int) BannerSize {
	switch {
	case width >= 300 && height >= 250:
		return MediumRectangle
	case width >= 320 && height >= 90:
		return LargeBanner
	}
	return StandardBanner
}

// bannerListener belongs to a single banner request, so it talks to its lifecycle directly.
type bannerListener struct {
	lifecycle *adapters.Lifecycle
}

func (l bannerListener) OnLoadSuccessed(MBridgeIds) {
	l.lifecycle.Post(events.NewLoaded())
}

func (l bannerListener) OnLoadFailed(_ MBridgeIds, msg string) {
	l.lifecycle.Post(events.NewLoadFailed(translate(msg, errortypes.Unspecified)))
}

func (l bannerListener) OnLogImpression(MBridgeIds) {
	l.lifecycle.Post(events.NewImpression())
}

func (l bannerListener) OnClick(MBridgeIds) {
	l.lifecycle.Post(events.NewClicked())
}

func (l bannerListener) OnCloseBanner(MBridgeIds) {
	l.lifecycle.Post(events.NewDismissed())
}
