// Package adcolony adapts the AdColony SDK. Every ad request gets a listener of its own, but
// rewards arrive through one global listener, so rewarded adapters register with a router keyed
// by zone. The SDK must be configured with every zone it serves; zones first seen in a request
// trigger a reconfiguration.
package adcolony

import (
	"context"
	"sort"
	"strings"
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
	Name:        "adcolony",
	DisplayName: "AdColony",
	Formats:     []mediation.AdFormat{mediation.FormatInterstitial, mediation.FormatRewarded},
	IDParam:     "zoneId",
	InitParams:  []string{"appId", "zoneId"},
}

func Builder(cfg adapters.Config) (adapters.Network, error) {
	return New(cfg, NewSimulatedSDK(cfg.Sim)), nil
}

type Network struct {
	cfg         adapters.Config
	sdk         SDK
	rewards     *eventrouter.Router
	coordinator *sdkinit.Coordinator

	mu    sync.Mutex
	zones map[string]struct{}
}

func New(cfg adapters.Config, sdk SDK) *Network {
	n := &Network{
		cfg:     cfg,
		sdk:     sdk,
		rewards: cfg.NewRouter(),
		zones:   make(map[string]struct{}),
	}
	n.coordinator = cfg.NewCoordinator(n.startSDK)
	sdk.SetRewardListener(rewardListener{rewards: n.rewards})
	return n
}

func (n *Network) startSDK(ctx context.Context, serverParams map[string]string, done func(error)) {
	zones := zoneList(serverParams)
	opts := appOptions(serverParams, gdpr.Decision{})
	if !n.sdk.Configure(serverParams["appId"], opts, zones...) {
		done(&errortypes.BadConfig{Message: "adcolony configure rejected app " + serverParams["appId"]})
		return
	}
	n.mu.Lock()
	for _, zone := range zones {
		n.zones[zone] = struct{}{}
	}
	n.mu.Unlock()
	done(nil)
}

// ensureZones reconfigures the SDK when zones contains a zone it was not configured with.
func (n *Network) ensureZones(appID string, opts AppOptions, zones []string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	var added bool
	for _, zone := range zones {
		if _, ok := n.zones[zone]; !ok {
			added = true
			break
		}
	}
	if !added {
		return nil
	}
	all := make([]string, 0, len(n.zones)+len(zones))
	for zone := range n.zones {
		all = append(all, zone)
	}
	for _, zone := range zones {
		if _, ok := n.zones[zone]; !ok {
			all = append(all, zone)
		}
	}
	sort.Strings(all)
	if !n.sdk.Configure(appID, opts, all...) {
		return &errortypes.BadConfig{Message: "adcolony reconfigure rejected zones " + strings.Join(zones, ",")}
	}
	for _, zone := range zones {
		n.zones[zone] = struct{}{}
	}
	return nil
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
		Placements: n.rewards.IDs(),
	}
}

func (n *Network) Close() {
	n.coordinator.Reset()
	n.mu.Lock()
	n.zones = make(map[string]struct{})
	n.mu.Unlock()
}

// Zones returns the zones the SDK is configured with, sorted.
func (n *Network) Zones() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	zones := make([]string, 0, len(n.zones))
	for zone := range n.zones {
		zones = append(zones, zone)
	}
	sort.Strings(zones)
	return zones
}

// zoneList returns the request's zone followed by any other zones listed in allZoneIds.
func zoneList(serverParams map[string]string) []string {
	zones := []string{serverParams["zoneId"]}
	seen := map[string]bool{serverParams["zoneId"]: true}
	for _, zone := range strings.Split(serverParams["allZoneIds"], ",") {
		zone = strings.TrimSpace(zone)
		if zone == "" || seen[zone] {
			continue
		}
		seen[zone] = true
		zones = append(zones, zone)
	}
	return zones
}

// appOptions parses clientOptions ("key:value,key:value") and applies the GDPR decision.
func appOptions(serverParams map[string]string, d gdpr.Decision) AppOptions {
	opts := AppOptions{
		GDPRRequired:      d.Applies == gdpr.SignalYes,
		GDPRConsentString: d.ConsentString,
	}
	for _, pair := range strings.Split(serverParams["clientOptions"], ",") {
		key, value, ok := strings.Cut(pair, ":")
		if key = strings.TrimSpace(key); !ok || key == "" {
			continue
		}
		if opts.Options == nil {
			opts.Options = make(map[string]string)
		}
		opts.Options[key] = strings.TrimSpace(value)
	}
	return opts
}

type adapter struct {
	*adapters.Lifecycle
	network *Network

	mu sync.Mutex
	ad Interstitial
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
	zoneID := serverParams["zoneId"]
	opts := appOptions(serverParams, a.network.cfg.Consent(data))

	a.OnRelease(func() { a.network.coordinator.Cancel(requestID) })
	a.network.coordinator.Ensure(ctx, requestID, serverParams, func(err error) {
		if err == nil {
			err = a.network.ensureZones(serverParams["appId"], opts, zoneList(serverParams))
		}
		if err != nil {
			a.Post(events.NewLoadFailed(errortypes.ReadCode(err)))
			return
		}
		a.network.sdk.SetAppOptions(opts)
		if data.Format == mediation.FormatRewarded {
			if !a.AttachIfLoading(func() *eventrouter.Registration {
				return a.network.rewards.Register(zoneID, a.Lifecycle)
			}) {
				return
			}
		} else if a.State() != adapters.Loading {
			return
		}
		a.network.sdk.RequestInterstitial(zoneID, requestListener{adapter: a})
	})
	return nil
}

func (a *adapter) setAd(ad Interstitial) {
	a.mu.Lock()
	a.ad = ad
	a.mu.Unlock()
	a.OnRelease(func() { ad.Destroy() })
}

func (a *adapter) Show(listener mediation.InteractionListener) error {
	if err := a.BeginShow(listener); err != nil {
		return err
	}
	a.mu.Lock()
	ad := a.ad
	a.mu.Unlock()

	switch {
	case ad == nil:
		a.Post(events.NewError(errortypes.AdShowError))
	case ad.IsExpired():
		a.Post(events.NewError(errortypes.ExpiredAd))
	case !ad.Show():
		a.Post(events.NewError(errortypes.AdShowError))
	}
	return nil
}

func (a *adapter) Invalidate() {
	a.Destroy()
}

// requestListener belongs to a single request and posts straight to its adapter.
type requestListener struct {
	adapter *adapter
}

func (l requestListener) OnRequestFilled(ad Interstitial) {
	l.adapter.setAd(ad)
	l.adapter.Post(events.NewLoaded())
}

func (l requestListener) OnRequestNotFilled(zoneID string, reason NotFilledReason) {
	l.adapter.Post(events.NewLoadFailed(translate(reason)))
}

func (l requestListener) OnOpened(Interstitial) {
	l.adapter.Post(events.NewShown())
	l.adapter.Post(events.NewImpression())
}

func (l requestListener) OnClicked(Interstitial) {
	l.adapter.Post(events.NewClicked())
}

func (l requestListener) OnExpiring(Interstitial) {
	l.adapter.Post(events.NewError(errortypes.ExpiredAd))
}

func (l requestListener) OnClosed(Interstitial) {
	l.adapter.Post(events.NewDismissed())
}

type rewardListener struct {
	rewards *eventrouter.Router
}

func (l rewardListener) OnReward(r Reward) {
	if !r.Success {
		return
	}
	l.rewards.Dispatch(r.ZoneID, events.NewRewarded(r.Amount, r.Name))
}
