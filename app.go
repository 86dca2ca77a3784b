package main

import (
	"context"
	"io"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/endpoints"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/prebid/mediation-adapters/harness"
	"github.com/prebid/mediation-adapters/initcache"
	"github.com/prebid/mediation-adapters/mainthread"
	metricsconfig "github.com/prebid/mediation-adapters/metrics/config"
	"github.com/prebid/mediation-adapters/networks"
	"github.com/prebid/mediation-adapters/params"
	"github.com/prebid/mediation-adapters/sdksim"
	"github.com/prebid/mediation-adapters/server"
)

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"port":      "admin.port",
	"rounds":    "harness.rounds",
	"fill-rate": "harness.fill_rate",
}

func loadConfig(cmd *cobra.Command, filename string) (*config.Configuration, error) {
	v := viper.New()
	if err := config.SetupViper(v, filename, networks.Names()); err != nil {
		return nil, err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return config.New(v, networks.Names())
}

// app holds every long lived piece wired from the configuration.
type app struct {
	cfg        *config.Configuration
	metrics    *metricsconfig.DetailedMetricsEngine
	registry   *networks.Registry
	dispatcher *sdksim.PoolDispatcher
	loop       *mainthread.Loop
	driver     *harness.Driver
}

func newApp(cfg *config.Configuration) (*app, error) {
	a := &app{cfg: cfg}
	a.metrics = metricsconfig.NewMetricsEngine(cfg, cfg.EnabledNetworks())

	var executor mainthread.Executor = mainthread.Immediate{}
	if cfg.Router.MainThread {
		a.loop = mainthread.NewLoop()
		executor = a.loop
	}

	validator, err := params.NewParamsValidator()
	if err != nil {
		a.shutdown()
		return nil, err
	}

	a.dispatcher = sdksim.NewPoolDispatcher(cfg.Harness.Workers, cfg.Harness.QueueSize, cfg.Harness.Latency, nil)
	registry, errs := networks.BuildNetworks(cfg, networks.Services{
		Executor: executor,
		Cache:    initcache.NewMemoryStore(cfg.InitCache.TTL),
		Metrics:  a.metrics,
		Params:   validator,
		Sim: sdksim.Options{
			Dispatcher: a.dispatcher,
			Behavior:   sdksim.NewBehavior(cfg.Harness.FillRate, cfg.Harness.Seed),
		},
	})
	a.registry = registry
	if len(errs) > 0 {
		a.shutdown()
		return nil, errortypes.NewAggregateErrors("network build errors", errs)
	}

	networkParams := make(map[string]map[string]string, len(cfg.Networks))
	for name, n := range cfg.Networks {
		networkParams[name] = n.Params
	}
	a.driver = harness.New(registry, harness.Options{
		Harness:  cfg.Harness,
		Params:   networkParams,
		Executor: executor,
	})
	return a, nil
}

// shutdown closes the networks before stopping the goroutines their callbacks run on.
func (a *app) shutdown() {
	if a.registry != nil {
		a.registry.Close()
	}
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.loop != nil {
		a.loop.Stop()
	}
}

func serve(ctx context.Context, revision string, cfg *config.Configuration) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	trafficDone := make(chan struct{})
	go func() {
		defer close(trafficDone)
		a.driver.Serve(ctx)
	}()

	adminRouter := endpoints.NewAdminRouter(revision, a.registry, a.metrics)
	err = server.Listen(cfg, adminRouter, cancel, func() { <-trafficDone }, a.shutdown)
	cancel()
	if err != nil {
		<-trafficDone
		a.shutdown()
	}
	return err
}

func simulate(ctx context.Context, cfg *config.Configuration, out io.Writer) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.shutdown()
	if ctx == nil {
		ctx = context.Background()
	}

	glog.Infof("simulating %d rounds against %v", cfg.Harness.Rounds, a.registry.Names())
	summary := a.driver.Run(ctx, cfg.Harness.Rounds)
	return summary.Print(out)
}
