package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutoring", Name: "http_requests_total", Help: "Processed HTTP requests",
	}, []string{"method", "route", "code"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tutoring", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	NotificationFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutoring", Name: "notification_failures_total", Help: "Best-effort notifications that failed",
	}, []string{"kind"})
	FeedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutoring", Name: "feed_events_total", Help: "Events delivered into the live feed hub",
	}, []string{"kind"})
	FeedEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tutoring", Name: "feed_evicted_total", Help: "Subscribers disconnected because their queue was full",
	})
	FeedSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tutoring", Name: "feed_subscribers", Help: "Active live feed subscribers",
	})
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutoring", Name: "job_runs_total", Help: "Total background job runs",
	}, []string{"job"})
	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutoring", Name: "job_errors_total", Help: "Total background job errors",
	}, []string{"job"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tutoring", Name: "job_duration_seconds", Help: "Background job duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tutoring", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		HTTPRequests, HTTPDuration,
		NotificationFailures,
		FeedEvents, FeedEvicted, FeedSubscribers,
		JobRuns, JobErrors, JobDuration,
		DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveRequest(method, route string, code int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, http.StatusText(code)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
