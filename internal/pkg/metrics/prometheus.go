package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrpayment",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qrpayment",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "qrpayment",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// QR generation metrics
	qrGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrpayment",
			Subsystem: "qr",
			Name:      "generated_total",
			Help:      "Total number of QR payloads generated",
		},
		[]string{"plan"},
	)

	qrEncodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "qrpayment",
			Subsystem: "qr",
			Name:      "encode_duration_seconds",
			Help:      "BySquare encoding duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	// Entitlement metrics
	limitDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrpayment",
			Subsystem: "limits",
			Name:      "denials_total",
			Help:      "Total number of generations denied by the monthly limit",
		},
		[]string{"plan"},
	)

	// Billing metrics
	purchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qrpayment",
			Subsystem: "billing",
			Name:      "purchases_total",
			Help:      "Total number of limit purchases",
		},
		[]string{"kind"},
	)

	// Monthly reset metrics
	monthlyResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "qrpayment",
			Subsystem: "usage",
			Name:      "monthly_resets_total",
			Help:      "Total number of monthly usage reset runs",
		},
	)

	monthlyResetUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "qrpayment",
			Subsystem: "usage",
			Name:      "monthly_reset_users",
			Help:      "Number of users affected by the last monthly reset",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		// Get route pattern from chi
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordQrGenerated records a successful QR generation
func RecordQrGenerated(plan string) {
	qrGeneratedTotal.WithLabelValues(plan).Inc()
}

// RecordEncodeDuration records the duration of one BySquare encode
func RecordEncodeDuration(duration time.Duration) {
	qrEncodeDuration.Observe(duration.Seconds())
}

// RecordLimitDenial records a generation blocked by the monthly limit
func RecordLimitDenial(plan string) {
	limitDenialsTotal.WithLabelValues(plan).Inc()
}

// RecordPurchase records a limit purchase by kind (topup, subscription)
func RecordPurchase(kind string) {
	purchasesTotal.WithLabelValues(kind).Inc()
}

// RecordMonthlyReset records a monthly reset run and its affected users
func RecordMonthlyReset(users int64) {
	monthlyResetsTotal.Inc()
	monthlyResetUsers.Set(float64(users))
}
