package gometrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics backed MetricsEngine. Meters are created per network on first use
// and registered under "network.<name>.<metric>".
type Metrics struct {
	MetricsRegistry gometrics.Registry

	networkMetrics map[string]*NetworkMetrics
	mu             sync.RWMutex
}

// NetworkMetrics houses the metrics for a particular network.
type NetworkMetrics struct {
	InitMeters      map[metrics.InitOutcome]gometrics.Meter
	InitTimer       gometrics.Timer
	LoadMeters      map[metrics.LoadOutcome]gometrics.Meter
	LoadTimer       gometrics.Timer
	ShowMeters      map[metrics.ShowOutcome]gometrics.Meter
	DeliveredMeters map[events.Kind]gometrics.Meter
	DroppedMeters   map[events.Kind]gometrics.Meter
	DisplacedMeter  gometrics.Meter
	PendingGauge    gometrics.Gauge
	PollMeters      map[metrics.PollOutcome]gometrics.Meter
}

// NewMetrics creates the engine and eagerly registers the metrics of the given networks.
func NewMetrics(registry gometrics.Registry, networks []string) *Metrics {
	m := &Metrics{
		MetricsRegistry: registry,
		networkMetrics:  make(map[string]*NetworkMetrics, len(networks)),
	}
	for _, network := range networks {
		m.networkMetrics[network] = newNetworkMetrics(registry, network)
	}
	return m
}

func newNetworkMetrics(registry gometrics.Registry, network string) *NetworkMetrics {
	prefix := "network." + network + "."
	nm := &NetworkMetrics{
		InitMeters:      make(map[metrics.InitOutcome]gometrics.Meter),
		InitTimer:       gometrics.GetOrRegisterTimer(prefix+"init_time", registry),
		LoadMeters:      make(map[metrics.LoadOutcome]gometrics.Meter),
		LoadTimer:       gometrics.GetOrRegisterTimer(prefix+"load_time", registry),
		ShowMeters:      make(map[metrics.ShowOutcome]gometrics.Meter),
		DeliveredMeters: make(map[events.Kind]gometrics.Meter),
		DroppedMeters:   make(map[events.Kind]gometrics.Meter),
		DisplacedMeter:  gometrics.GetOrRegisterMeter(prefix+"router.displaced", registry),
		PendingGauge:    gometrics.GetOrRegisterGauge(prefix+"pending_requests", registry),
		PollMeters:      make(map[metrics.PollOutcome]gometrics.Meter),
	}
	for _, o := range metrics.InitOutcomes() {
		nm.InitMeters[o] = gometrics.GetOrRegisterMeter(fmt.Sprintf("%sinit.%s", prefix, o), registry)
	}
	for _, o := range metrics.LoadOutcomes() {
		nm.LoadMeters[o] = gometrics.GetOrRegisterMeter(fmt.Sprintf("%sload.%s", prefix, o), registry)
	}
	for _, o := range []metrics.ShowOutcome{metrics.ShowSuccess, metrics.ShowFailure} {
		nm.ShowMeters[o] = gometrics.GetOrRegisterMeter(fmt.Sprintf("%sshow.%s", prefix, o), registry)
	}
	for _, k := range events.Kinds() {
		nm.DeliveredMeters[k] = gometrics.GetOrRegisterMeter(fmt.Sprintf("%srouter.delivered.%s", prefix, k), registry)
		nm.DroppedMeters[k] = gometrics.GetOrRegisterMeter(fmt.Sprintf("%srouter.dropped.%s", prefix, k), registry)
	}
	for _, o := range metrics.PollOutcomes() {
		nm.PollMeters[o] = gometrics.GetOrRegisterMeter(fmt.Sprintf("%spoll.%s", prefix, o), registry)
	}
	return nm
}

// getNetworkMetrics returns the metrics for network, registering them on first use.
func (m *Metrics) getNetworkMetrics(network string) *NetworkMetrics {
	m.mu.RLock()
	nm, ok := m.networkMetrics[network]
	m.mu.RUnlock()
	if ok {
		return nm
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if nm, ok = m.networkMetrics[network]; !ok {
		nm = newNetworkMetrics(m.MetricsRegistry, network)
		m.networkMetrics[network] = nm
	}
	return nm
}

func (m *Metrics) RecordInit(network string, outcome metrics.InitOutcome) {
	if meter, ok := m.getNetworkMetrics(network).InitMeters[outcome]; ok {
		meter.Mark(1)
	}
}

func (m *Metrics) RecordInitTime(network string, length time.Duration) {
	m.getNetworkMetrics(network).InitTimer.Update(length)
}

func (m *Metrics) RecordLoad(labels metrics.LoadLabels) {
	if meter, ok := m.getNetworkMetrics(labels.Network).LoadMeters[labels.Outcome]; ok {
		meter.Mark(1)
	}
}

func (m *Metrics) RecordLoadTime(network string, length time.Duration) {
	m.getNetworkMetrics(network).LoadTimer.Update(length)
}

func (m *Metrics) RecordShow(network string, outcome metrics.ShowOutcome) {
	if meter, ok := m.getNetworkMetrics(network).ShowMeters[outcome]; ok {
		meter.Mark(1)
	}
}

func (m *Metrics) RecordDispatch(labels metrics.DispatchLabels) {
	nm := m.getNetworkMetrics(labels.Network)
	meters := nm.DroppedMeters
	if labels.Delivered {
		meters = nm.DeliveredMeters
	}
	if meter, ok := meters[labels.Kind]; ok {
		meter.Mark(1)
	}
}

func (m *Metrics) RecordDisplaced(network string) {
	m.getNetworkMetrics(network).DisplacedMeter.Mark(1)
}

func (m *Metrics) RecordPendingRequests(network string, pending int) {
	m.getNetworkMetrics(network).PendingGauge.Update(int64(pending))
}

func (m *Metrics) RecordPoll(network string, outcome metrics.PollOutcome) {
	if meter, ok := m.getNetworkMetrics(network).PollMeters[outcome]; ok {
		meter.Mark(1)
	}
}
