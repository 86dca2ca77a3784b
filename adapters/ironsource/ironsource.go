// Package ironsource adapts the IronSource demand-only API. Each instance ID can serve one ad
// at a time, so adapters claim their instance in an instance map before loading and a second
// request for a busy instance is refused.
package ironsource

import (
	"context"
	"fmt"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/gdpr"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/sdkinit"
)

var info = adapters.Info{
	Name:        "ironsource",
	DisplayName: "IronSource",
	Formats:     []mediation.AdFormat{mediation.FormatInterstitial, mediation.FormatRewarded},
	IDParam:     "instanceId",
	InitParams:  []string{"appKey"},
}

func Builder(cfg adapters.Config) (adapters.Network, error) {
	return New(cfg, NewSimulatedSDK(cfg.Sim)), nil
}

type Network struct {
	cfg         adapters.Config
	sdk         SDK
	coordinator *sdkinit.Coordinator

	// The SDK keeps interstitial and rewarded instances in separate namespaces.
	interstitials *eventrouter.Router
	rewarded      *eventrouter.Router
}

func New(cfg adapters.Config, sdk SDK) *Network {
	n := &Network{
		cfg:           cfg,
		sdk:           sdk,
		interstitials: cfg.NewRouter(),
		rewarded:      cfg.NewRouter(),
	}
	n.coordinator = cfg.NewCoordinator(n.startSDK)
	sdk.SetISDemandOnlyInterstitialListener(interstitialListener{instances: n.interstitials})
	sdk.SetISDemandOnlyRewardedVideoListener(rewardedListener{instances: n.rewarded})
	return n
}

// startSDK completes at once: demand-only initialization has no callback.
func (n *Network) startSDK(ctx context.Context, serverParams map[string]string, done func(error)) {
	n.sdk.InitISDemandOnly(serverParams["appKey"], AdUnitInterstitial, AdUnitRewardedVideo)
	done(nil)
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
	var placements []string
	for _, id := range n.interstitials.IDs() {
		placements = append(placements, "interstitial/"+id)
	}
	for _, id := range n.rewarded.IDs() {
		placements = append(placements, "rewarded/"+id)
	}
	return adapters.Status{
		Network:    info.Name,
		SDK:        n.coordinator.State().String(),
		Pending:    n.coordinator.Pending(),
		Placements: placements,
	}
}

func (n *Network) Close() {
	n.coordinator.Reset()
}

func (n *Network) instances(format mediation.AdFormat) *eventrouter.Router {
	if format == mediation.FormatRewarded {
		return n.rewarded
	}
	return n.interstitials
}

func (n *Network) updateConsent(d gdpr.Decision) {
	if d.Applies != gdpr.SignalYes {
		return
	}
	n.sdk.SetConsent(d.PersonalizedAds)
}

type adapter struct {
	*adapters.Lifecycle
	network    *Network
	instanceID string
	rewarded   bool
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
	a.instanceID = serverParams["instanceId"]
	a.rewarded = data.Format == mediation.FormatRewarded

	reg, ok := a.network.instances(data.Format).RegisterIfAbsent(a.instanceID, a.Lifecycle)
	if !ok {
		return a.Reject(&errortypes.InvalidState{
			Message: fmt.Sprintf("ironsource %s instance %s already has an ad in flight", data.Format, a.instanceID),
		})
	}
	a.Attach(reg)
	a.network.updateConsent(a.network.cfg.Consent(data))

	a.OnRelease(func() { a.network.coordinator.Cancel(requestID) })
	a.network.coordinator.Ensure(ctx, requestID, serverParams, func(err error) {
		if err != nil {
			a.Post(events.NewLoadFailed(errortypes.ReadCode(err)))
			return
		}
		if a.State() != adapters.Loading {
			return
		}
		if a.ready() {
			a.network.instances(data.Format).Dispatch(a.instanceID, events.NewLoaded())
			return
		}
		if a.rewarded {
			a.network.sdk.LoadISDemandOnlyRewardedVideo(a.instanceID)
			return
		}
		a.network.sdk.LoadISDemandOnlyInterstitial(a.instanceID)
	})
	return nil
}

func (a *adapter) ready() bool {
	if a.rewarded {
		return a.network.sdk.IsISDemandOnlyRewardedVideoAvailable(a.instanceID)
	}
	return a.network.sdk.IsISDemandOnlyInterstitialReady(a.instanceID)
}

func (a *adapter) Show(listener mediation.InteractionListener) error {
	if err := a.BeginShow(listener); err != nil {
		return err
	}
	if !a.ready() {
		a.Post(events.NewError(errortypes.AdShowError))
		return nil
	}
	if a.rewarded {
		a.network.sdk.ShowISDemandOnlyRewardedVideo(a.instanceID)
		return nil
	}
	a.network.sdk.ShowISDemandOnlyInterstitial(a.instanceID)
	return nil
}

func (a *adapter) Invalidate() {
	a.Destroy()
}

type interstitialListener struct {
	instances *eventrouter.Router
}

func (l interstitialListener) OnInterstitialAdReady(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewLoaded())
}

func (l interstitialListener) OnInterstitialAdLoadFailed(instanceID string, err *Error) {
	l.instances.Dispatch(instanceID, events.NewLoadFailed(translate(err)))
}

func (l interstitialListener) OnInterstitialAdOpened(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewShown())
	l.instances.Dispatch(instanceID, events.NewImpression())
}

func (l interstitialListener) OnInterstitialAdShowFailed(instanceID string, err *Error) {
	l.instances.Dispatch(instanceID, events.NewError(translate(err)))
}

func (l interstitialListener) OnInterstitialAdClicked(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewClicked())
}

func (l interstitialListener) OnInterstitialAdClosed(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewDismissed())
}

type rewardedListener struct {
	instances *eventrouter.Router
}

func (l rewardedListener) OnRewardedVideoAdLoadSuccess(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewLoaded())
}

func (l rewardedListener) OnRewardedVideoAdLoadFailed(instanceID string, err *Error) {
	l.instances.Dispatch(instanceID, events.NewLoadFailed(translate(err)))
}

func (l rewardedListener) OnRewardedVideoAdOpened(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewShown())
	l.instances.Dispatch(instanceID, events.NewImpression())
}

func (l rewardedListener) OnRewardedVideoAdShowFailed(instanceID string, err *Error) {
	l.instances.Dispatch(instanceID, events.NewError(translate(err)))
}

func (l rewardedListener) OnRewardedVideoAdClicked(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewClicked())
}

// OnRewardedVideoAdRewarded carries no amount in demand-only mode.
func (l rewardedListener) OnRewardedVideoAdRewarded(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewRewarded(0, mediation.NoRewardLabel))
}

func (l rewardedListener) OnRewardedVideoAdClosed(instanceID string) {
	l.instances.Dispatch(instanceID, events.NewDismissed())
}
