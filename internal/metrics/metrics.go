package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoice_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	signupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_signups_total",
		Help: "Signup attempts by result",
	}, []string{"result"})

	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	invoicesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invoice_invoices_created_total",
		Help: "Invoices persisted",
	})

	artifactRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoice_artifact_render_duration_seconds",
		Help:    "Duration of PDF generation and storage",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"path"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSignup counts a signup attempt
func ObserveSignup(result string) {
	signupsTotal.WithLabelValues(result).Inc()
}

// ObserveLogin counts a login attempt
func ObserveLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

func ObserveInvoiceCreated() {
	invoicesCreated.Inc()
}

// ObserveArtifactRender records how long rendering took and whether it succeeded
func ObserveArtifactRender(result string, duration time.Duration) {
	artifactRenderDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func ObserveRateLimited(path string) {
	rateLimited.WithLabelValues(path).Inc()
}
