// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var startTime = time.Now()

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cms_http_requests_total",
		Help: "Total number of HTTP requests by route, method and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cms_http_request_duration_seconds",
		Help:    "HTTP request latency by route and method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	FormSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cms_form_submissions_total",
		Help: "Accepted public form submissions by form.",
	}, []string{"form"})

	SettingsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_settings_cache_hits_total",
		Help: "Settings reads served from the in-process cache.",
	})
	SettingsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cms_settings_cache_misses_total",
		Help: "Settings reads that went to the database.",
	})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cms_rate_limited_total",
		Help: "Requests rejected by a per-IP rate limiter, by limiter.",
	}, []string{"limiter"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cms_notifications_total",
		Help: "Submission notification deliveries by result.",
	}, []string{"result"})
)

func init() {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "cms_uptime_seconds",
		Help: "Time since server start in seconds.",
	}, func() float64 { return time.Since(startTime).Seconds() })
}

// RegisterDB exports connection pool statistics for db. Call once at startup.
func RegisterDB(db *sql.DB) error {
	return prometheus.Register(collectors.NewDBStatsCollector(db, "cms"))
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
