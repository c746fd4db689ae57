package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Authentication metrics
	authSignInAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sign_in_attempts_total",
			Help: "Total number of sign-in attempts",
		},
		[]string{"realm", "status"}, // realm: user/admin, status: success/failure
	)

	authSignInDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_sign_in_duration_seconds",
			Help:    "Sign-in request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"realm"},
	)

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Total number of token verifications",
		},
		[]string{"class", "status"}, // status: success/expired/bad_signature/bad_algorithm/bad_claims/malformed
	)
)

// Metrics creates a Prometheus metrics middleware
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// Process request
		c.Next()

		// Record metrics
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// SignInMetrics times a sign-in route and counts the outcome by status
// code. It is attached per route so the realm label stays accurate.
func SignInMetrics(realm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := "failure"
		if c.Writer.Status() < 400 {
			status = "success"
		}
		authSignInAttemptsTotal.WithLabelValues(realm, status).Inc()
		authSignInDuration.WithLabelValues(realm).Observe(time.Since(start).Seconds())
	}
}

// RecordTokenVerification records a token verification metric
func RecordTokenVerification(class, status string) {
	tokenVerificationsTotal.WithLabelValues(class, status).Inc()
}
