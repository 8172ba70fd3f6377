package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sentinela-gov/sentinela/internal/common/config"
)

// Metrics holds the Prometheus registry and the collectors exposed by the
// api server.
type Metrics struct {
	registry    *prometheus.Registry
	httpReqCnt  *prometheus.CounterVec
	httpDur     *prometheus.HistogramVec
	guardDenied *prometheus.CounterVec
	pncpLookups *prometheus.CounterVec
	syncJobs    *prometheus.CounterVec
}

// New creates a metrics registry with process, Go and domain collectors.
func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route"})
	guardDenied := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "guard_denials_total"}, []string{"guard"})
	pncpLookups := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "pncp_lookups_total"}, []string{"kind", "outcome"})
	syncJobs := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "sync_jobs_total"}, []string{"type", "result"})
	r.MustRegister(httpReqCnt, httpDur, guardDenied, pncpLookups, syncJobs)

	return &Metrics{
		registry:    r,
		httpReqCnt:  httpReqCnt,
		httpDur:     httpDur,
		guardDenied: guardDenied,
		pncpLookups: pncpLookups,
		syncJobs:    syncJobs,
	}
}

// GuardDenied counts a guard rejection by guard name (tenant, role, owner).
func (m *Metrics) GuardDenied(guard string) {
	m.guardDenied.WithLabelValues(guard).Inc()
}

// PNCPLookup counts a remote lookup by kind (supplier, contracts,
// certificates) and outcome (ok, error).
func (m *Metrics) PNCPLookup(kind, outcome string) {
	m.pncpLookups.WithLabelValues(kind, outcome).Inc()
}

// SyncJob counts a background reconciliation job result.
func (m *Metrics) SyncJob(jobType, result string) {
	m.syncJobs.WithLabelValues(jobType, result).Inc()
}

// GinMiddleware records request counters and latency per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// GinHandler exposes the registry in Prometheus text format.
func (m *Metrics) GinHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
