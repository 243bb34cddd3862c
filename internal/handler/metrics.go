package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/devils-eye/youtube-transcript-downloader/internal/quota"
	"github.com/devils-eye/youtube-transcript-downloader/internal/task"
)

// Metrics holds all Prometheus collectors for the backend.
var Metrics = struct {
	TasksStarted     prometheus.Counter
	TasksCompleted   prometheus.Counter
	TasksCancelled   prometheus.Counter
	TasksTracked     prometheus.GaugeFunc
	QuotaUsed        prometheus.GaugeFunc
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(tasks *task.Manager, tracker *quota.Tracker) {
	Metrics.TasksStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transcriptdl_tasks_started_total",
			Help: "Total processing tasks started.",
		},
	)

	Metrics.TasksCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transcriptdl_tasks_completed_total",
			Help: "Total processing tasks that ran to completion.",
		},
	)

	Metrics.TasksCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transcriptdl_tasks_cancelled_total",
			Help: "Total processing tasks cancelled by the client.",
		},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transcriptdl_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "transcriptdl_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transcriptdl_cache_hits_total",
			Help: "Total Redis language cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "transcriptdl_cache_misses_total",
			Help: "Total Redis language cache misses.",
		},
	)

	if tasks != nil {
		Metrics.TasksTracked = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "transcriptdl_tasks_tracked",
				Help: "Number of tasks currently held in the registry.",
			},
			func() float64 {
				return float64(tasks.Len())
			},
		)
		prometheus.MustRegister(Metrics.TasksTracked)
	}

	if tracker != nil {
		Metrics.QuotaUsed = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "transcriptdl_youtube_quota_used_units",
				Help: "YouTube Data API quota units used in the current window.",
			},
			func() float64 {
				return float64(tracker.Used())
			},
		)
		prometheus.MustRegister(Metrics.QuotaUsed)
	}

	prometheus.MustRegister(
		Metrics.TasksStarted,
		Metrics.TasksCompleted,
		Metrics.TasksCancelled,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case len(path) > 15 && path[:15] == "/api/languages/":
		return "/api/languages/:videoId"
	case len(path) > 16 && path[:16] == "/api/transcript/":
		return "/api/transcript/:videoId"
	case len(path) > 10 && path[:10] == "/api/task/":
		if len(path) > 7 && path[len(path)-7:] == "/cancel" {
			return "/api/task/:taskId/cancel"
		}
		return "/api/task/:taskId"
	case len(path) > 14 && path[:14] == "/api/download/":
		return "/api/download/:filename"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
