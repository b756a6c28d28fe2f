package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rosterRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	rosterRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	rosterValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_validation_failures_total",
		Help: "Total field validation failures by field and kind.",
	}, []string{"field", "kind"})

	rosterLoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_logins_total",
		Help: "Total login attempts by result.",
	}, []string{"result"})

	rosterWebhookDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roster_webhook_deliveries_total",
		Help: "Total webhook delivery attempts by result.",
	}, []string{"result"})
)

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		rosterRequestsTotal.WithLabelValues(method, path, status).Inc()
		rosterRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordValidationFailure counts one field validation failure.
func RecordValidationFailure(field, kind string) {
	rosterValidationFailuresTotal.WithLabelValues(field, kind).Inc()
}

// RecordLogin counts one login attempt.
func RecordLogin(success bool) {
	if success {
		rosterLoginsTotal.WithLabelValues("success").Inc()
	} else {
		rosterLoginsTotal.WithLabelValues("failure").Inc()
	}
}

// RecordWebhookDelivery counts one webhook delivery attempt. Wired into
// webhooks.Service as its MetricsRecorder.
func RecordWebhookDelivery(success bool) {
	if success {
		rosterWebhookDeliveriesTotal.WithLabelValues("success").Inc()
	} else {
		rosterWebhookDeliveriesTotal.WithLabelValues("failure").Inc()
	}
}
