package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tracks performance metrics across the system.
// A nil *MetricsCollector is valid and records nothing.
type MetricsCollector struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	errors     *prometheus.CounterVec
	likes      *prometheus.CounterVec
	firstViews prometheus.Counter
	logins     *prometheus.CounterVec
}

func NewMetricsCollector() *MetricsCollector {
	mc := &MetricsCollector{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "blog",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "errors_total",
			Help:      "Errors returned to clients by error code.",
		}, []string{"code"}),
		likes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "like_toggles_total",
			Help:      "Like toggles by resulting state.",
		}, []string{"result"}),
		firstViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "post_first_views_total",
			Help:      "Views that created a new view record.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "logins_total",
			Help:      "Successful logins, split by whether the account was created.",
		}, []string{"kind"}),
	}

	mc.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		mc.requests, mc.latency, mc.errors, mc.likes, mc.firstViews, mc.logins,
	)
	return mc
}

// ObserveRequest records one finished HTTP request.
func (mc *MetricsCollector) ObserveRequest(method, route string, status int, duration time.Duration) {
	if mc == nil {
		return
	}
	mc.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	mc.latency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (mc *MetricsCollector) IncrementErrors(code string) {
	if mc == nil {
		return
	}
	mc.errors.WithLabelValues(code).Inc()
}

func (mc *MetricsCollector) RecordLikeToggle(liked bool) {
	if mc == nil {
		return
	}
	result := "unliked"
	if liked {
		result = "liked"
	}
	mc.likes.WithLabelValues(result).Inc()
}

func (mc *MetricsCollector) RecordFirstView() {
	if mc == nil {
		return
	}
	mc.firstViews.Inc()
}

func (mc *MetricsCollector) RecordLogin(created bool) {
	if mc == nil {
		return
	}
	kind := "existing"
	if created {
		kind = "registered"
	}
	mc.logins.WithLabelValues(kind).Inc()
}

// Handler exposes the collector's registry in the Prometheus text format.
func (mc *MetricsCollector) Handler() http.Handler {
	if mc == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}

// Registry is exposed for tests.
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}
