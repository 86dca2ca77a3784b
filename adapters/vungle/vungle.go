// Package vungle adapts the Vungle SDK. The SDK reports every placement's events through one
// global callback sink, so adapter instances register with a router under their placement ID;
// loads issued while the SDK initializes wait in the coordinator's waiting list.
package vungle

import (
	"context"
	"strconv"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/gdpr"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/params"
	"github.com/prebid/mediation-adapters/sdkinit"
)

var info = adapters.Info{
	Name:        "vungle",
	DisplayName: "Vungle",
	Formats:     []mediation.AdFormat{mediation.FormatInterstitial, mediation.FormatRewarded},
	IDParam:     "placementId",
	InitParams:  []string{"appId"},
}

// Builder builds the Vungle network against a simulated SDK.
func Builder(cfg adapters.Config) (adapters.Network, error) {
	return New(cfg, NewSimulatedSDK(cfg.Sim)), nil
}

// Network is the process wide Vungle state shared by every adapter instance.
type Network struct {
	cfg         adapters.Config
	sdk         SDK
	router      *eventrouter.Router
	coordinator *sdkinit.Coordinator
	loadSink    loadSink
	playSink    playSink
}

func New(cfg adapters.Config, sdk SDK) *Network {
	n := &Network{
		cfg:    cfg,
		sdk:    sdk,
		router: cfg.NewRouter(),
	}
	n.coordinator = cfg.NewCoordinator(n.startSDK)
	n.loadSink = loadSink{router: n.router}
	n.playSink = playSink{router: n.router}
	return n
}

func (n *Network) startSDK(ctx context.Context, serverParams map[string]string, done func(error)) {
	n.sdk.Init(serverParams["appId"], initCallback{done: done})
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

// updateConsent forwards the request's GDPR decision. Requests where GDPR does not apply leave
// the SDK's consent status untouched.
func (n *Network) updateConsent(d gdpr.Decision) {
	if d.Applies != gdpr.SignalYes {
		return
	}
	status := ConsentOptedOut
	if d.PersonalizedAds {
		status = ConsentOptedIn
	}
	n.sdk.UpdateConsentStatus(status, ConsentMessageVersion)
}

type adapter struct {
	*adapters.Lifecycle
	network     *Network
	placementID string
	adConfig    AdConfig
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

	extras := params.Extras(data.Extras)
	ordinal, _ := strconv.Atoi(serverParams["ordinal"])
	a.placementID = serverParams["placementId"]
	a.adConfig = AdConfig{
		Muted:   extras.Bool(true, "muteAudio"),
		Ordinal: ordinal,
		UserID:  extras.String("", "userId"),
	}
	a.network.updateConsent(a.network.cfg.Consent(data))

	a.OnRelease(func() { a.network.coordinator.Cancel(requestID) })
	a.network.coordinator.Ensure(ctx, requestID, serverParams, func(err error) {
		if err != nil {
			a.Post(events.NewLoadFailed(errortypes.ReadCode(err)))
			return
		}
		if !a.AttachIfLoading(func() *eventrouter.Registration {
			return a.network.router.Register(a.placementID, a.Lifecycle)
		}) {
			return
		}
		if a.network.sdk.CanPlayAd(a.placementID) {
			a.network.router.Dispatch(a.placementID, events.NewLoaded())
			return
		}
		a.network.sdk.LoadAd(a.placementID, a.adConfig, a.network.loadSink)
	})
	return nil
}

func (a *adapter) Show(listener mediation.InteractionListener) error {
	if err := a.BeginShow(listener); err != nil {
		return err
	}
	if !a.network.sdk.CanPlayAd(a.placementID) {
		a.Post(events.NewError(errortypes.AdShowError))
		return nil
	}
	a.network.sdk.PlayAd(a.placementID, a.adConfig, a.network.playSink)
	return nil
}

func (a *adapter) Invalidate() {
	a.Destroy()
}

type initCallback struct {
	done func(error)
}

func (c initCallback) OnSuccess() {
	c.done(nil)
}

func (c initCallback) OnError(err *Error) {
	c.done(&errortypes.NetworkFailure{Message: err.Error(), ErrorCode: translate(err)})
}

type loadSink struct {
	router *eventrouter.Router
}

func (s loadSink) OnAdLoad(placementID string) {
	s.router.Dispatch(placementID, events.NewLoaded())
}

func (s loadSink) OnError(placementID string, err *Error) {
	s.router.Dispatch(placementID, events.NewLoadFailed(translate(err)))
}

type playSink struct {
	router *eventrouter.Router
}

func (s playSink) OnAdStart(placementID string) {
	s.router.Dispatch(placementID, events.NewShown())
}

func (s playSink) OnAdViewed(placementID string) {
	s.router.Dispatch(placementID, events.NewImpression())
}

func (s playSink) OnAdClick(placementID string) {
	s.router.Dispatch(placementID, events.NewClicked())
}

// OnAdRewarded carries no reward details; the mediator applies its own configured reward.
func (s playSink) OnAdRewarded(placementID string) {
	s.router.Dispatch(placementID, events.NewRewarded(0, mediation.NoRewardLabel))
}

func (s playSink) OnAdEnd(placementID string) {
	s.router.Dispatch(placementID, events.NewDismissed())
}

func (s playSink) OnError(placementID string, err *Error) {
	s.router.Dispatch(placementID, events.NewError(translate(err)))
}
