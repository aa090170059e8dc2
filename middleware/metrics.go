package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// AuthAttempts counts login outcomes: success, invalid, error.
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// GuardDecisions counts Access Guard results per operation class.
	GuardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "newsroom_guard_decisions_total",
		Help: "Access guard decisions by operation and result.",
	}, []string{"operation", "result"})

	// SessionsPurged counts expired sessions removed by the purger.
	SessionsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "newsroom_sessions_purged_total",
		Help: "Expired sessions removed by the background purger.",
	})
)

// PrometheusMiddleware records request count and latency. The route label is
// the registered pattern, not the raw path, to keep cardinality bounded.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
