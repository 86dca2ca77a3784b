// Package endpoints serves the harness admin API: liveness, network state, registered
// placements and metrics.
package endpoints

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	metricsconfig "github.com/prebid/mediation-adapters/metrics/config"
)

// NewAdminRouter routes every admin endpoint. /metrics is served only when a Prometheus engine
// is configured.
func NewAdminRouter(revision string, source NetworkSource, metrics *metricsconfig.DetailedMetricsEngine) *httprouter.Router {
	r := httprouter.New()
	r.GET("/status", NewStatusEndpoint(revision, source))
	r.GET("/networks", NewNetworksEndpoint(source))
	r.GET("/networks/:network", NewNetworkDetailsEndpoint(source))
	r.GET("/placements", NewPlacementsEndpoint(source))

	if metrics != nil && metrics.PrometheusMetrics != nil {
		r.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.PrometheusMetrics.Registry, promhttp.HandlerOpts{
			ErrorLog:            loggerForPrometheus{},
			MaxRequestsInFlight: 5,
		}))
	}
	return r
}

type loggerForPrometheus struct{}

func (loggerForPrometheus) Println(v ...interface{}) {
	glog.Warningln(v...)
}
