// Package harness drives mediator traffic through the built networks: each round loads one ad
// per network and format and shows the fullscreen ones, the way a mediator would.
package harness

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/alitto/pond"
	"github.com/benbjohnson/clock"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/logger"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation"
)

// Source is the set of networks traffic is sent to.
type Source interface {
	Names() []string
	Get(name string) (adapters.Network, bool)
}

// Options configure a Driver.
type Options struct {
	Harness config.Harness
	// Params are extra server params per network, layered under the generated ones.
	Params map[string]map[string]string
	// WaitTimeout bounds the wait for each load and show outcome.
	WaitTimeout time.Duration
	Clock       clock.Clock
	// Executor is the one the networks deliver listener calls on. Optional.
	Executor mainthread.Executor
}

// Driver sends simulated mediator traffic to every network of a Source.
type Driver struct {
	source  Source
	opts    Options
	clock   clock.Clock
	log     logger.Logger
	summary *Summary
}

func New(source Source, opts Options) *Driver {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 30 * time.Second
	}
	if opts.Harness.Workers < 1 {
		opts.Harness.Workers = 1
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Driver{
		source:  source,
		opts:    opts,
		clock:   clk,
		log:     logger.Prefixed("harness"),
		summary: newSummary(),
	}
}

// Summary returns the running totals of every round driven so far.
func (d *Driver) Summary() *Summary {
	return d.summary
}

// Run drives rounds rounds back to back, or until ctx is done.
func (d *Driver) Run(ctx context.Context, rounds int) *Summary {
	for round := 0; round < rounds && ctx.Err() == nil; round++ {
		d.Round(ctx, round)
	}
	return d.summary
}

// Serve drives one round per configured interval until ctx is done.
func (d *Driver) Serve(ctx context.Context) {
	interval := d.opts.Harness.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := d.clock.Ticker(interval)
	defer ticker.Stop()

	for round := 0; ; round++ {
		d.Round(ctx, round)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Round sends one ad request per network and supported format. Networks are driven in parallel
// on a worker pool; one network's requests run one after the other.
func (d *Driver) Round(ctx context.Context, round int) {
	pool := pond.New(d.opts.Harness.Workers, len(d.source.Names()))
	defer pool.StopAndWait()

	var wg sync.WaitGroup
	for _, name := range d.source.Names() {
		network, ok := d.source.Get(name)
		if !ok {
			continue
		}
		wg.Add(1)
		pool.Submit(func() {
			defer wg.Done()
			for i, format := range network.Info().Formats {
				d.request(ctx, network, format, placementID(round, i))
			}
		})
	}
	wg.Wait()
}

// placementID spreads rounds over three placements per format so both fresh and reused
// placements are exercised.
func placementID(round, formatIndex int) string {
	return strconv.Itoa(1000 + formatIndex*100 + round%3)
}

// ServerParams builds the server params of one request: every init param gets a generated
// numeric value unless configured, and the placement param gets id.
func (d *Driver) ServerParams(info adapters.Info, id string) map[string]string {
	params := make(map[string]string, len(info.InitParams)+1)
	for i, key := range info.InitParams {
		params[key] = strconv.Itoa(i + 1)
	}
	for k, v := range d.opts.Params[info.Name] {
		params[k] = v
	}
	params[info.IDParam] = id
	return params
}

func (d *Driver) request(ctx context.Context, network adapters.Network, format mediation.AdFormat, id string) {
	info := network.Info()
	data := mediation.AdData{
		AdUnitID:     fmt.Sprintf("%s-%s-%s", info.Name, format, id),
		Format:       format,
		ServerParams: d.ServerParams(info, id),
		GDPRApplies:  "0",
	}
	if format == mediation.FormatBanner {
		data.Width, data.Height = 320, 50
	}

	adapter := network.NewAdapter()
	defer adapter.Invalidate()

	if _, err := adapter.CheckAndInitializeSDK(ctx, data); err != nil {
		d.log.Warnf("%s: initialization refused: %v", info.Name, err)
	}

	d.summary.update(info.Name, func(ns *NetworkSummary) { ns.Requests++ })
	s := newSession()
	if err := adapter.Load(ctx, data, s); err != nil {
		d.recordLoadFailure(info.Name, errortypes.ReadCode(err))
		return
	}

	loaded, ok := d.await(ctx, s.loaded)
	if !ok {
		d.recordLoadFailure(info.Name, errortypes.NetworkTimeout)
		return
	}
	if !loaded.ok {
		d.recordLoadFailure(info.Name, loaded.code)
		return
	}
	d.summary.update(info.Name, func(ns *NetworkSummary) { ns.Filled++ })
	if !format.Fullscreen() {
		d.settle(ctx)
		d.recordInteractions(info.Name, s)
		return
	}

	if err := adapter.Show(s); err != nil {
		d.log.Debugf("%s: show refused: %v", info.Name, err)
		d.summary.update(info.Name, func(ns *NetworkSummary) { ns.ShowFailed++ })
		return
	}
	closed, ok := d.await(ctx, s.closed)
	d.summary.update(info.Name, func(ns *NetworkSummary) {
		if ok && closed.ok {
			ns.Shown++
		} else {
			ns.ShowFailed++
		}
	})
	d.recordInteractions(info.Name, s)
}

func (d *Driver) await(ctx context.Context, ch <-chan outcome) (outcome, bool) {
	timer := d.clock.Timer(d.opts.WaitTimeout)
	defer timer.Stop()
	select {
	case o := <-ch:
		return o, true
	case <-timer.C:
		return outcome{}, false
	case <-ctx.Done():
		return outcome{}, false
	}
}

// settle returns once the executor ran everything posted before it, so banner callbacks the
// network sent along with the load outcome are counted before the adapter is invalidated.
func (d *Driver) settle(ctx context.Context) {
	if d.opts.Executor == nil {
		return
	}
	done := make(chan struct{})
	if !d.opts.Executor.Post(func() { close(done) }) {
		return
	}
	timer := d.clock.Timer(d.opts.WaitTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (d *Driver) recordLoadFailure(network string, code errortypes.ErrorCode) {
	d.summary.update(network, func(ns *NetworkSummary) { ns.Failed[code]++ })
}

func (d *Driver) recordInteractions(network string, s *session) {
	impressions, clicks, rewards := s.counts()
	d.summary.update(network, func(ns *NetworkSummary) {
		ns.Impressions += impressions
		ns.Clicks += clicks
		ns.Rewards += rewards
	})
}
