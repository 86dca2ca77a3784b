package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prebid/mediation-adapters/errortypes"
	"github.com/spf13/viper"
)

// Configuration specifies the static application config.
type Configuration struct {
	Admin     Admin              `mapstructure:"admin"`
	Metrics   Metrics            `mapstructure:"metrics"`
	Router    Router             `mapstructure:"router"`
	InitCache InitCache          `mapstructure:"init_cache"`
	GDPR      GDPR               `mapstructure:"gdpr"`
	Networks  map[string]Network `mapstructure:"networks"`
	Harness   Harness            `mapstructure:"harness"`
}

type GDPR struct {
	// DefaultValue is assumed when a request carries no GDPR signal: "1" treats it as applying.
	DefaultValue string `mapstructure:"default_value"`
}

func (cfg *GDPR) validate(errs []error) []error {
	if cfg.DefaultValue != "0" && cfg.DefaultValue != "1" {
		errs = append(errs, fmt.Errorf("gdpr.default_value must be \"0\" or \"1\". Got %q", cfg.DefaultValue))
	}
	return errs
}

// Admin configures the HTTP endpoints exposing status and metrics.
type Admin struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type Metrics struct {
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
	GoMetrics  GoMetrics         `mapstructure:"go_metrics"`
}

type PrometheusMetrics struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

type GoMetrics struct {
	Enabled bool `mapstructure:"enabled"`
}

// Router configures every placement-keyed event router.
type Router struct {
	// NotifyDisplaced tells a listener replaced by a newer registration for the same placement
	// that its request was superseded, instead of leaving it waiting forever.
	NotifyDisplaced bool `mapstructure:"notify_displaced"`
	// MainThread delivers every listener call from one dedicated goroutine, the way the host
	// application's main thread would. When false, listeners run on the calling goroutine.
	MainThread bool `mapstructure:"main_thread"`
}

type InitCache struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Network holds host-level settings for one network adapter.
type Network struct {
	Disabled     bool              `mapstructure:"disabled"`
	InitTimeout  time.Duration     `mapstructure:"init_timeout"`
	PollInterval time.Duration     `mapstructure:"poll_interval"`
	PollTimeout  time.Duration     `mapstructure:"poll_timeout"`
	Params       map[string]string `mapstructure:"params"`
}

// Harness drives the simulated traffic of the mediation-harness binary.
type Harness struct {
	Rounds    int           `mapstructure:"rounds"`
	Workers   int           `mapstructure:"workers"`
	QueueSize int           `mapstructure:"queue_size"`
	FillRate  float64       `mapstructure:"fill_rate"`
	Latency   time.Duration `mapstructure:"latency"`
	Interval  time.Duration `mapstructure:"interval"`
	Seed      int64         `mapstructure:"seed"`
}

func (cfg *Admin) validate(errs []error) []error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		errs = append(errs, fmt.Errorf("admin.port must be within [0, 65535]. Got %d", cfg.Port))
	}
	return errs
}

func (cfg *Network) validate(name string, errs []error) []error {
	if cfg.InitTimeout < 0 {
		errs = append(errs, fmt.Errorf("networks.%s.init_timeout must be >= 0. Got %s", name, cfg.InitTimeout))
	}
	if cfg.PollInterval < 0 {
		errs = append(errs, fmt.Errorf("networks.%s.poll_interval must be >= 0. Got %s", name, cfg.PollInterval))
	}
	if cfg.PollTimeout < 0 {
		errs = append(errs, fmt.Errorf("networks.%s.poll_timeout must be >= 0. Got %s", name, cfg.PollTimeout))
	}
	if cfg.PollTimeout > 0 && cfg.PollInterval > cfg.PollTimeout {
		errs = append(errs, fmt.Errorf("networks.%s.poll_interval (%s) must not exceed poll_timeout (%s)", name, cfg.PollInterval, cfg.PollTimeout))
	}
	return errs
}

func (cfg *Harness) validate(errs []error) []error {
	if cfg.FillRate < 0 || cfg.FillRate > 1 {
		errs = append(errs, fmt.Errorf("harness.fill_rate must be within [0, 1]. Got %f", cfg.FillRate))
	}
	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("harness.workers must be positive. Got %d", cfg.Workers))
	}
	if cfg.Rounds < 0 {
		errs = append(errs, fmt.Errorf("harness.rounds must be >= 0. Got %d", cfg.Rounds))
	}
	return errs
}

func (cfg *Configuration) validate(knownNetworks []string) []error {
	var errs []error
	errs = cfg.Admin.validate(errs)
	errs = cfg.Harness.validate(errs)
	errs = cfg.GDPR.validate(errs)

	known := make(map[string]struct{}, len(knownNetworks))
	for _, n := range knownNetworks {
		known[n] = struct{}{}
	}

	names := make([]string, 0, len(cfg.Networks))
	for name := range cfg.Networks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := known[name]; !ok {
			errs = append(errs, fmt.Errorf("networks.%s is not a supported network", name))
			continue
		}
		network := cfg.Networks[name]
		errs = network.validate(name, errs)
	}
	if cfg.InitCache.TTL < 0 {
		errs = append(errs, fmt.Errorf("init_cache.ttl must be >= 0. Got %s", cfg.InitCache.TTL))
	}
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper, knownNetworks []string) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "viper failed to unmarshal app config")
	}

	if errs := c.validate(knownNetworks); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}

	return &c, nil
}

// Network returns the settings of one network, falling back to an enabled zero value.
func (cfg *Configuration) Network(name string) Network {
	return cfg.Networks[name]
}

// EnabledNetworks returns the configured networks that are not disabled, sorted by name.
func (cfg *Configuration) EnabledNetworks() []string {
	names := make([]string, 0, len(cfg.Networks))
	for name, n := range cfg.Networks {
		if !n.Disabled {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SetupViper sets default values for every configuration key, registers the config file and
// environment overrides (MED_ prefix), and reads the config file if one exists.
func SetupViper(v *viper.Viper, filename string, knownNetworks []string) error {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("admin.host", "")
	v.SetDefault("admin.port", 6060)
	v.SetDefault("metrics.prometheus.enabled", true)
	v.SetDefault("metrics.prometheus.namespace", "mediation")
	v.SetDefault("metrics.prometheus.subsystem", "adapters")
	v.SetDefault("metrics.go_metrics.enabled", false)
	v.SetDefault("router.notify_displaced", false)
	v.SetDefault("router.main_thread", true)
	v.SetDefault("init_cache.ttl", 24*time.Hour)
	v.SetDefault("gdpr.default_value", "1")

	for _, name := range knownNetworks {
		v.SetDefault("networks."+name+".disabled", false)
		v.SetDefault("networks."+name+".init_timeout", 10*time.Second)
		v.SetDefault("networks."+name+".poll_interval", 500*time.Millisecond)
		v.SetDefault("networks."+name+".poll_timeout", 30*time.Second)
	}

	v.SetDefault("harness.rounds", 10)
	v.SetDefault("harness.workers", 4)
	v.SetDefault("harness.queue_size", 256)
	v.SetDefault("harness.fill_rate", 0.8)
	v.SetDefault("harness.latency", 50*time.Millisecond)
	v.SetDefault("harness.interval", time.Second)
	v.SetDefault("harness.seed", 1)

	v.SetEnvPrefix("MED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename == "" {
		return nil
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrapf(err, "reading config file %s", filename)
	}
	return nil
}
