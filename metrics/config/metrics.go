package config

import (
	"time"

	mainConfig "github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/prebid/mediation-adapters/metrics/gometrics"
	prometheusmetrics "github.com/prebid/mediation-adapters/metrics/prometheus"
	gometricslib "github.com/rcrowley/go-metrics"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine for this
// instance. With no backend enabled every call is discarded.
func NewMetricsEngine(cfg *mainConfig.Configuration, networks []string) *DetailedMetricsEngine {
	returnEngine := DetailedMetricsEngine{}
	engineList := make(MultiMetricsEngine, 0, 2)

	if cfg.Metrics.GoMetrics.Enabled {
		returnEngine.GoMetrics = gometrics.NewMetrics(gometricslib.NewPrefixedRegistry("mediation."), networks)
		engineList = append(engineList, returnEngine.GoMetrics)
	}
	if cfg.Metrics.Prometheus.Enabled {
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus, networks)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	switch len(engineList) {
	case 0:
		returnEngine.MetricsEngine = &DummyMetricsEngine{}
	case 1:
		returnEngine.MetricsEngine = engineList[0]
	default:
		returnEngine.MetricsEngine = &engineList
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetrics         *gometrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// MultiMetricsEngine logs metrics to multiple metrics databases.
type MultiMetricsEngine []metrics.MetricsEngine

func (me *MultiMetricsEngine) RecordInit(network string, outcome metrics.InitOutcome) {
	for _, thisME := range *me {
		thisME.RecordInit(network, outcome)
	}
}

func (me *MultiMetricsEngine) RecordInitTime(network string, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordInitTime(network, length)
	}
}

func (me *MultiMetricsEngine) RecordLoad(labels metrics.LoadLabels) {
	for _, thisME := range *me {
		thisME.RecordLoad(labels)
	}
}

func (me *MultiMetricsEngine) RecordLoadTime(network string, length time.Duration) {
	for _, thisME := range *me {
		thisME.RecordLoadTime(network, length)
	}
}

func (me *MultiMetricsEngine) RecordShow(network string, outcome metrics.ShowOutcome) {
	for _, thisME := range *me {
		thisME.RecordShow(network, outcome)
	}
}

func (me *MultiMetricsEngine) RecordDispatch(labels metrics.DispatchLabels) {
	for _, thisME := range *me {
		thisME.RecordDispatch(labels)
	}
}

func (me *MultiMetricsEngine) RecordDisplaced(network string) {
	for _, thisME := range *me {
		thisME.RecordDisplaced(network)
	}
}

func (me *MultiMetricsEngine) RecordPendingRequests(network string, pending int) {
	for _, thisME := range *me {
		thisME.RecordPendingRequests(network, pending)
	}
}

func (me *MultiMetricsEngine) RecordPoll(network string, outcome metrics.PollOutcome) {
	for _, thisME := range *me {
		thisME.RecordPoll(network, outcome)
	}
}

// DummyMetricsEngine is a Noop metrics engine in case no metrics are configured.
type DummyMetricsEngine struct {
	metrics.NilMetricsEngine
}
