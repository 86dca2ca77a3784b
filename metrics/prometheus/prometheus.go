package prometheusmetrics

import (
	"strconv"
	"time"

	"github.com/prebid/mediation-adapters/config"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics defines the Prometheus metrics backing the MetricsEngine implementation.
type Metrics struct {
	Registry *prometheus.Registry

	initOutcomes    *prometheus.CounterVec
	initTimer       *prometheus.HistogramVec
	loads           *prometheus.CounterVec
	loadTimer       *prometheus.HistogramVec
	shows           *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	displaced       *prometheus.CounterVec
	pendingRequests *prometheus.GaugeVec
	polls           *prometheus.CounterVec
}

const (
	networkLabel   = "network"
	formatLabel    = "format"
	outcomeLabel   = "outcome"
	errorCodeLabel = "error_code"
	eventLabel     = "event"
	deliveredLabel = "delivered"
)

// NewMetrics initializes a new Prometheus metrics instance with preloaded label values.
func NewMetrics(cfg config.PrometheusMetrics, networks []string) *Metrics {
	standardTimeBuckets := []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.initOutcomes = newCounter(cfg, metrics.Registry,
		"sdk_init",
		"Count of network SDK initialization attempts labeled by outcome.",
		[]string{networkLabel, outcomeLabel})

	metrics.initTimer = newHistogramVec(cfg, metrics.Registry,
		"sdk_init_time_seconds",
		"Seconds spent waiting for network SDK initialization.",
		[]string{networkLabel},
		standardTimeBuckets)

	metrics.loads = newCounter(cfg, metrics.Registry,
		"ad_loads",
		"Count of ad load requests labeled by outcome and mediator error code.",
		[]string{networkLabel, formatLabel, outcomeLabel, errorCodeLabel})

	metrics.loadTimer = newHistogramVec(cfg, metrics.Registry,
		"ad_load_time_seconds",
		"Seconds from load request to terminal load callback.",
		[]string{networkLabel},
		standardTimeBuckets)

	metrics.shows = newCounter(cfg, metrics.Registry,
		"ad_shows",
		"Count of fullscreen show attempts labeled by outcome.",
		[]string{networkLabel, outcomeLabel})

	metrics.dispatches = newCounter(cfg, metrics.Registry,
		"router_dispatches",
		"Count of vendor callbacks routed by placement, labeled by whether a listener was registered.",
		[]string{networkLabel, eventLabel, deliveredLabel})

	metrics.displaced = newCounter(cfg, metrics.Registry,
		"router_displaced_listeners",
		"Count of listeners replaced by a newer registration for the same placement.",
		[]string{networkLabel})

	metrics.pendingRequests = newGaugeVec(cfg, metrics.Registry,
		"pending_requests",
		"Number of load requests waiting for network SDK initialization.",
		[]string{networkLabel})

	metrics.polls = newCounter(cfg, metrics.Registry,
		"ready_polls",
		"Count of ad readiness polls labeled by how they ended.",
		[]string{networkLabel, outcomeLabel})

	preloadLabelValues(&metrics, networks)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newGaugeVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string) *prometheus.GaugeVec {
	opts := prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	gauge := prometheus.NewGaugeVec(opts, labels)
	registry.MustRegister(gauge)
	return gauge
}

func newHistogramVec(cfg config.PrometheusMetrics, registry *prometheus.Registry, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func (m *Metrics) RecordInit(network string, outcome metrics.InitOutcome) {
	m.initOutcomes.With(prometheus.Labels{
		networkLabel: network,
		outcomeLabel: string(outcome),
	}).Inc()
}

func (m *Metrics) RecordInitTime(network string, length time.Duration) {
	m.initTimer.With(prometheus.Labels{
		networkLabel: network,
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordLoad(labels metrics.LoadLabels) {
	code := ""
	if labels.Outcome == metrics.LoadFailure {
		code = labels.Code.String()
	}
	m.loads.With(prometheus.Labels{
		networkLabel:   labels.Network,
		formatLabel:    labels.Format,
		outcomeLabel:   string(labels.Outcome),
		errorCodeLabel: code,
	}).Inc()
}

func (m *Metrics) RecordLoadTime(network string, length time.Duration) {
	m.loadTimer.With(prometheus.Labels{
		networkLabel: network,
	}).Observe(length.Seconds())
}

func (m *Metrics) RecordShow(network string, outcome metrics.ShowOutcome) {
	m.shows.With(prometheus.Labels{
		networkLabel: network,
		outcomeLabel: string(outcome),
	}).Inc()
}

func (m *Metrics) RecordDispatch(labels metrics.DispatchLabels) {
	m.dispatches.With(prometheus.Labels{
		networkLabel:   labels.Network,
		eventLabel:     labels.Kind.String(),
		deliveredLabel: strconv.FormatBool(labels.Delivered),
	}).Inc()
}

func (m *Metrics) RecordDisplaced(network string) {
	m.displaced.With(prometheus.Labels{
		networkLabel: network,
	}).Inc()
}

func (m *Metrics) RecordPendingRequests(network string, pending int) {
	m.pendingRequests.With(prometheus.Labels{
		networkLabel: network,
	}).Set(float64(pending))
}

func (m *Metrics) RecordPoll(network string, outcome metrics.PollOutcome) {
	m.polls.With(prometheus.Labels{
		networkLabel: network,
		outcomeLabel: string(outcome),
	}).Inc()
}
