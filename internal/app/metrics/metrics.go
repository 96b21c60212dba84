package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "huntboard",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "huntboard",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	// ApplicationsCreated counts new job applications.
	ApplicationsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "applications",
			Name:      "created_total",
			Help:      "Total number of applications created.",
		},
	)

	// ApplicationsRejected counts rejection outcomes.
	ApplicationsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "applications",
			Name:      "rejected_total",
			Help:      "Total number of applications rejected.",
		},
	)

	// ApplicationsAccepted counts acceptance outcomes.
	ApplicationsAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "applications",
			Name:      "accepted_total",
			Help:      "Total number of applications accepted.",
		},
	)

	// AppointmentsScheduled counts scheduled appointments.
	AppointmentsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "appointments",
			Name:      "scheduled_total",
			Help:      "Total number of appointments scheduled.",
		},
	)

	alertsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "alerts",
			Name:      "sent_total",
			Help:      "Total number of appointment alerts sent.",
		},
		[]string{"channel", "success"},
	)

	statisticsRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "huntboard",
			Subsystem: "statistics",
			Name:      "runs_total",
			Help:      "Total number of statistics aggregation runs.",
		},
		[]string{"success"},
	)

	statisticsDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "huntboard",
			Subsystem: "statistics",
			Name:      "run_duration_seconds",
			Help:      "Duration of statistics aggregation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		ApplicationsCreated,
		ApplicationsRejected,
		ApplicationsAccepted,
		AppointmentsScheduled,
		alertsSent,
		statisticsRuns,
		statisticsDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAlertSent records an alert delivery attempt on a channel (email or
// browser).
func RecordAlertSent(channel string, success bool) {
	alertsSent.WithLabelValues(channel, strconv.FormatBool(success)).Inc()
}

// RecordStatisticsRun records one aggregation run.
func RecordStatisticsRun(duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	statisticsRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
	statisticsDuration.Observe(duration.Seconds())
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// canonicalPath collapses resource identifiers so the path label stays
// low-cardinality.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	switch parts[0] {
	case "applications":
		if len(parts) == 1 {
			return "/applications"
		}
		if len(parts) == 2 {
			return "/applications/:id"
		}
		return "/applications/:id/" + parts[2]
	case "states", "users", "statistics":
		if len(parts) == 1 {
			return "/" + parts[0]
		}
		return "/" + parts[0] + "/:id"
	case "auth":
		if len(parts) == 1 {
			return "/auth"
		}
		return "/auth/" + parts[1]
	default:
		return "/" + parts[0]
	}
}
