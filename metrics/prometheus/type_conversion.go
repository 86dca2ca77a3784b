package prometheusmetrics

import (
	"strconv"

	"github.com/prebid/mediation-adapters/events"
	"github.com/prebid/mediation-adapters/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func initOutcomesAsString() []string {
	values := metrics.InitOutcomes()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func pollOutcomesAsString() []string {
	values := metrics.PollOutcomes()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = string(v)
	}
	return valuesAsString
}

func eventKindsAsString() []string {
	values := events.Kinds()
	valuesAsString := make([]string, len(values))
	for i, v := range values {
		valuesAsString[i] = v.String()
	}
	return valuesAsString
}

func boolValuesAsString() []string {
	return []string{
		strconv.FormatBool(true),
		strconv.FormatBool(false),
	}
}

// preloadLabelValues creates every series up front so dashboards see zeroes instead of gaps.
func preloadLabelValues(m *Metrics, networks []string) {
	for _, network := range networks {
		for _, outcome := range initOutcomesAsString() {
			m.initOutcomes.With(prometheus.Labels{networkLabel: network, outcomeLabel: outcome})
		}
		for _, outcome := range pollOutcomesAsString() {
			m.polls.With(prometheus.Labels{networkLabel: network, outcomeLabel: outcome})
		}
		for _, kind := range eventKindsAsString() {
			for _, delivered := range boolValuesAsString() {
				m.dispatches.With(prometheus.Labels{networkLabel: network, eventLabel: kind, deliveredLabel: delivered})
			}
		}
		m.displaced.With(prometheus.Labels{networkLabel: network})
		m.pendingRequests.With(prometheus.Labels{networkLabel: network})
	}
}
