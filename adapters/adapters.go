// Package adapters holds what every network adapter shares: the lifecycle state machine, the
// per-network services built from configuration, and the builder signature the registry uses.
package adapters

import (
	"context"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/eventrouter"
	"github.com/prebid/mediation-adapters/gdpr"
	"github.com/prebid/mediation-adapters/initcache"
	"github.com/prebid/mediation-adapters/mainthread"
	"github.com/prebid/mediation-adapters/mediation"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/prebid/mediation-adapters/params"
	"github.com/prebid/mediation-adapters/sdkinit"
	"github.com/prebid/mediation-adapters/sdksim"
)

// Info is static metadata about a network integration.
type Info struct {
	Name        string
	DisplayName string
	Formats     []mediation.AdFormat
	// IDParam is the server param identifying one placement, e.g. "placementId".
	IDParam string
	// InitParams are the server params the SDK is initialized with.
	InitParams []string
}

// Supports reports whether the network serves format.
func (i Info) Supports(format mediation.AdFormat) bool {
	for _, f := range i.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Status is a point in time view of a network, served by the admin endpoints.
type Status struct {
	Network    string   `json:"network"`
	SDK        string   `json:"sdk"`
	Pending    int      `json:"pending"`
	Placements []string `json:"placements"`
}

// Network is the process wide state of one network integration: its SDK handle, router and
// initialization coordinator. Adapter instances created by NewAdapter share it.
type Network interface {
	Info() Info
	NewAdapter() mediation.Adapter
	Status() Status
	// Close tears the network down. Adapters created before Close must not be used afterwards.
	Close()
}

// Builder builds a network from its configuration.
type Builder func(cfg Config) (Network, error)

// Config carries the settings and shared services a Builder needs.
type Config struct {
	Name            string
	Network         config.Network
	NotifyDisplaced bool
	// GDPRDefault is assumed when a request has no GDPR signal.
	GDPRDefault string
	Executor    mainthread.Executor
	Clock       clock.Clock
	Cache       initcache.Store
	Metrics     metrics.MetricsEngine
	Params      params.Validator
	Sim         sdksim.Options
}

// WithDefaults fills every unset service with its standalone default.
func (c Config) WithDefaults() (Config, error) {
	if c.Executor == nil {
		c.Executor = mainthread.Immediate{}
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NilMetricsEngine{}
	}
	if c.GDPRDefault == "" {
		c.GDPRDefault = "1"
	}
	if c.Params == nil {
		v, err := params.NewParamsValidator()
		if err != nil {
			return c, err
		}
		c.Params = v
	}
	c.Sim = c.Sim.WithDefaults()
	return c, nil
}

func (c Config) NewRouter() *eventrouter.Router {
	return eventrouter.New(eventrouter.Options{
		Network:         c.Name,
		Executor:        c.Executor,
		NotifyDisplaced: c.NotifyDisplaced,
		Metrics:         c.Metrics,
	})
}

func (c Config) NewCoordinator(starter sdkinit.Starter) *sdkinit.Coordinator {
	return sdkinit.New(sdkinit.Options{
		Network: c.Name,
		Starter: starter,
		Timeout: c.Network.InitTimeout,
		Clock:   c.Clock,
		Cache:   c.Cache,
		Metrics: c.Metrics,
	})
}

func (c Config) NewLifecycle() *Lifecycle {
	return NewLifecycle(LifecycleOptions{
		Network:  c.Name,
		Executor: c.Executor,
		Clock:    c.Clock,
		Metrics:  c.Metrics,
	})
}

// ServerParams returns the request's server params layered over the configured ones, with keys
// in the spelling of the network's schema, and validates the result.
func (c Config) ServerParams(data mediation.AdData) (map[string]string, error) {
	merged := c.mergeParams(data)
	if err := c.Params.Validate(c.Name, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (c Config) mergeParams(data mediation.AdData) map[string]string {
	merged := make(map[string]string, len(c.Network.Params)+len(data.ServerParams))
	for k, v := range c.Params.Canonical(c.Name, c.Network.Params) {
		merged[k] = v
	}
	for k, v := range c.Params.Canonical(c.Name, data.ServerParams) {
		if v = strings.TrimSpace(v); v != "" {
			merged[k] = v
		}
	}
	return merged
}

// Consent evaluates the request's GDPR signals with the configured default.
func (c Config) Consent(data mediation.AdData) gdpr.Decision {
	return gdpr.Evaluate(data.GDPRApplies, data.ConsentString, c.GDPRDefault)
}

// WithParams returns a copy of data carrying params as its server params.
func WithParams(data mediation.AdData, params map[string]string) mediation.AdData {
	data.ServerParams = params
	return data
}

// CheckAndInitialize is the CheckAndInitializeSDK shared by adapters whose SDK goes through a
// Coordinator. It validates the init params, starts initialization if needed and reports
// whether the SDK was already initialized.
func CheckAndInitialize(ctx context.Context, cfg Config, coordinator *sdkinit.Coordinator, data mediation.AdData, initParams ...string) (bool, error) {
	if coordinator.State() == sdkinit.Initialized {
		return true, nil
	}
	// Only the init params are required here; placement params arrive with each load.
	serverParams := cfg.mergeParams(data)
	if err := WithParams(data, serverParams).RequireParams(initParams...); err != nil {
		return false, err
	}
	coordinator.Ensure(ctx, "check-and-initialize", serverParams, func(error) {})
	return false, nil
}
