// Package networks builds the configured network integrations and keeps them together for the
// harness and its admin endpoints.
package networks

import (
	"fmt"
	"sort"

	"github.com/benbjohnson/clock"

	"github.com/prebid/mediation-adapters/adapters"
	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/initcache"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/prebid/mediation-adapters/params"
	"github.com/prebid/mediation-adapters/sdksim"
)

// Services are the process wide collaborators shared by every network.
type Services struct {
	Executor mainthread.Executor
	Clock    clock.Clock
	Cache    initcache.Store
	Metrics  metrics.MetricsEngine
	Params   params.Validator
	Sim      sdksim.Options
}

// BuildNetworks builds every enabled network of cfg. Networks missing from cfg are built with
// their default settings. Errors are collected per network; a network that fails to build is
// left out of the result.
func BuildNetworks(cfg *config.Configuration, services Services) (*Registry, []error) {
	return buildNetworks(cfg, newNetworkBuilders(), services)
}

func buildNetworks(cfg *config.Configuration, builders map[string]adapters.Builder, services Services) (*Registry, []error) {
	registry := &Registry{networks: make(map[string]adapters.Network, len(builders))}
	var errs []error

	for _, name := range configuredNames(cfg, builders) {
		builder, builderFound := builders[name]
		if !builderFound {
			errs = append(errs, fmt.Errorf("%v: builder not registered", name))
			continue
		}
		settings := cfg.Network(name)
		if settings.Disabled {
			continue
		}

		networkCfg, err := adapters.Config{
			Name:            name,
			Network:         settings,
			NotifyDisplaced: cfg.Router.NotifyDisplaced,
			GDPRDefault:     cfg.GDPR.DefaultValue,
			Executor:        services.Executor,
			Clock:           services.Clock,
			Cache:           services.Cache,
			Metrics:         services.Metrics,
			Params:          services.Params,
			Sim:             services.Sim,
		}.WithDefaults()
		if err != nil {
			errs = append(errs, fmt.Errorf("%v: %v", name, err))
			continue
		}

		network, builderErr := builder(networkCfg)
		if builderErr != nil {
			errs = append(errs, fmt.Errorf("%v: %v", name, builderErr))
			continue
		}
		registry.networks[name] = infoAwareNetwork{Network: network}
	}
	return registry, errs
}

// configuredNames lists every network named in cfg plus every network with a builder, sorted.
func configuredNames(cfg *config.Configuration, builders map[string]adapters.Builder) []string {
	seen := make(map[string]struct{}, len(builders)+len(cfg.Networks))
	for name := range builders {
		seen[name] = struct{}{}
	}
	for name := range cfg.Networks {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// infoAwareNetwork hands out adapters that refuse formats the network does not serve.
type infoAwareNetwork struct {
	adapters.Network
}

func (n infoAwareNetwork) NewAdapter() mediation.Adapter {
	return adapters.BuildInfoAwareAdapter(n.Network.NewAdapter(), n.Network.Info())
}

// Registry holds the built networks by name.
type Registry struct {
	networks map[string]adapters.Network
}

// Get returns the named network.
func (r *Registry) Get(name string) (adapters.Network, bool) {
	n, ok := r.networks[name]
	return n, ok
}

// Names returns the names of the built networks, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.networks))
	for name := range r.networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Statuses returns the status of every built network, sorted by name.
func (r *Registry) Statuses() []adapters.Status {
	names := r.Names()
	statuses := make([]adapters.Status, 0, len(names))
	for _, name := range names {
		statuses = append(statuses, r.networks[name].Status())
	}
	return statuses
}

// Infos returns the metadata of every built network, sorted by name.
func (r *Registry) Infos() []adapters.Info {
	names := r.Names()
	infos := make([]adapters.Info, 0, len(names))
	for _, name := range names {
		infos = append(infos, r.networks[name].Info())
	}
	return infos
}

// Close tears every network down.
func (r *Registry) Close() {
	for _, n := range r.networks {
		n.Close()
	}
}
