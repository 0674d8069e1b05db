package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the app's Prometheus metrics behind a private registry.
type Collector struct {
	reg *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec // labels: endpoint, outcome
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter

	PlansTotal   prometheus.Counter
	PlansEmpty   prometheus.Counter
	PlanDuration prometheus.Histogram

	SitesIndexed     prometheus.Gauge
	DeviationsActive prometheus.Gauge
}

// NewCollector creates and registers all metrics.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resa_upstream_requests_total",
			Help: "SL API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resa_upstream_cache_hits_total",
			Help: "Upstream responses served from the TTL cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resa_upstream_cache_misses_total",
			Help: "Upstream cache lookups that missed.",
		}),
		PlansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resa_plans_total",
			Help: "Trip plan invocations.",
		}),
		PlansEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resa_plans_empty_total",
			Help: "Trip plans that produced no journeys.",
		}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resa_plan_duration_seconds",
			Help:    "End-to-end duration of the trip aggregation pipeline.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		SitesIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resa_sites_indexed",
			Help: "Number of sites in the search index.",
		}),
		DeviationsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "resa_deviations_active",
			Help: "Currently active service deviations.",
		}),
	}

	reg.MustRegister(
		c.UpstreamRequests, c.CacheHits, c.CacheMisses,
		c.PlansTotal, c.PlansEmpty, c.PlanDuration,
		c.SitesIndexed, c.DeviationsActive,
	)
	return c
}

// Handler returns the /metrics HTTP handler.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
