// Package fyber adapts the Fyber Marketplace SDK. Each request gets its own ad spot and
// listener. The SDK confirms the request but never says when the ad content is ready, so the
// adapter polls the spot until it is.
package fyber

import (
	"context"
	"sort"
	"sync"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/gdpr"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/poller"
	"github.com/prebid/mediation-adapters/sdkinit"
)

var info = adapters.Info{
	Name:        "fyber",
	DisplayName: "Fyber Marketplace",
	Formats:     []mediation.AdFormat{mediation.FormatInterstitial, mediation.FormatRewarded},
	IDParam:     "spotId",
	InitParams:  []string{"appId"},
}

func Builder(cfg adapters.Config) (adapters.Network, error) {
	return New(cfg, NewSimulatedSDK(cfg.Sim)), nil
}

type Network struct {
	cfg         adapters.Config
	sdk         SDK
	coordinator *sdkinit.Coordinator

	mu    sync.Mutex
	spots map[string]int
}

func New(cfg adapters.Config, sdk SDK) *Network {
	n := &Network{
		cfg:   cfg,
		sdk:   sdk,
		spots: make(map[string]int),
	}
	n.coordinator = cfg.NewCoordinator(n.startSDK)
	return n
}

func (n *Network) startSDK(ctx context.Context, serverParams map[string]string, done func(error)) {
	n.sdk.Initialize(serverParams["appId"], func(status InitStatus) {
		if status == SuccessfullyInitialized {
			done(nil)
			return
		}
		done(&errortypes.NetworkFailure{
			Message:   "fyber initialization failed: " + status.String(),
			ErrorCode: translateInit(status),
		})
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

// Status lists the spot IDs with a request in flight or an ad waiting to be shown.
func (n *Network) Status() adapters.Status {
	n.mu.Lock()
	spots := make([]string, 0, len(n.spots))
	for id := range n.spots {
		spots = append(spots, id)
	}
	n.mu.Unlock()
	sort.Strings(spots)
	return adapters.Status{
		Network:    info.Name,
		SDK:        n.coordinator.State().String(),
		Pending:    n.coordinator.Pending(),
		Placements: spots,
	}
}

func (n *Network) Close() {
	n.coordinator.Reset()
}

func (n *Network) track(spotID string) func() {
	n.mu.Lock()
	n.spots[spotID]++
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		if n.spots[spotID]--; n.spots[spotID] <= 0 {
			delete(n.spots, spotID)
		}
		n.mu.Unlock()
	}
}

func (n *Network) updateConsent(d gdpr.Decision) {
	if d.Applies != gdpr.SignalYes {
		return
	}
	n.sdk.SetGdprConsent(d.PersonalizedAds)
	if d.ConsentString != "" {
		n.sdk.SetGdprConsentString(d.ConsentString)
	}
}

type adapter struct {
	*adapters.Lifecycle
	network *Network

	mu   sync.Mutex
	spot AdSpot
	task *poller.Task
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
	spotID := serverParams["spotId"]
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
		spot := a.network.sdk.CreateSpot()
		a.mu.Lock()
		a.spot = spot
		a.mu.Unlock()
		a.OnRelease(spot.Destroy)
		a.OnRelease(a.network.track(spotID))

		spot.SetRequestListener(requestListener{adapter: a})
		spot.RequestAd(spotID)
	})
	return nil
}

// awaitReady polls spot until its content is ready or the poll times out.
func (a *adapter) awaitReady(spot AdSpot) {
	cfg := a.network.cfg
	task := poller.New(spot.IsReady, poller.Options{
		Interval:  cfg.Network.PollInterval,
		Timeout:   cfg.Network.PollTimeout,
		Clock:     cfg.Clock,
		OnReady:   func() { a.Post(events.NewLoaded()) },
		OnTimeout: func() { a.Post(events.NewLoadFailed(errortypes.NetworkTimeout)) },
		Network:   info.Name,
		Metrics:   cfg.Metrics,
	})
	a.mu.Lock()
	a.task = task
	a.mu.Unlock()
	a.OnRelease(task.Stop)
	task.Start()
}

func (a *adapter) Show(listener mediation.InteractionListener) error {
	if err := a.BeginShow(listener); err != nil {
		return err
	}
	a.mu.Lock()
	spot := a.spot
	a.mu.Unlock()

	if spot == nil || !spot.IsReady() {
		a.Post(events.NewError(errortypes.AdShowError))
		return nil
	}
	spot.Show(showListener{adapter: a})
	return nil
}

func (a *adapter) Invalidate() {
	a.Destroy()
}

type requestListener struct {
	adapter *adapter
}

func (l requestListener) OnInneractiveSuccessfulAdRequest(spot AdSpot) {
	l.adapter.awaitReady(spot)
}

func (l requestListener) OnInneractiveFailedAdRequest(spot AdSpot, code ErrorCode) {
	l.adapter.Post(events.NewLoadFailed(translate(code)))
}

type showListener struct {
	adapter *adapter
}

func (l showListener) OnAdImpression(AdSpot) {
	l.adapter.Post(events.NewShown())
	l.adapter.Post(events.NewImpression())
}

func (l showListener) OnAdClicked(AdSpot) {
	l.adapter.Post(events.NewClicked())
}

// OnAdRewarded reports completion only; the mediator applies its configured reward.
func (l showListener) OnAdRewarded(AdSpot) {
	l.adapter.Post(events.NewRewarded(0, mediation.NoRewardLabel))
}

func (l showListener) OnAdShowFailed(_ AdSpot, code ErrorCode) {
	l.adapter.Post(events.NewError(translate(code)))
}

func (l showListener) OnAdDismissed(AdSpot) {
	l.adapter.Post(events.NewDismissed())
}
