package handlers

import (
	"context"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppMetrics holds application-level metrics (upstream calls, fallbacks)
type AppMetrics struct {
	mutex          sync.RWMutex
	upstreamCalls  map[string]int64
	upstreamErrors map[string]int64
	fallbacks      map[string]int64
}

// HTTPMetricsSource exposes the request counters collected by the metrics
// middleware.
type HTTPMetricsSource interface {
	Snapshot() (requestsTotal map[string]int64, avgDuration float64, activeRequests int64)
}

type MetricsHandler struct {
	logger      *zap.Logger
	appMetrics  *AppMetrics
	httpMetrics HTTPMetricsSource
}

func NewMetricsHandler(logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		appMetrics: &AppMetrics{
			upstreamCalls:  make(map[string]int64),
			upstreamErrors: make(map[string]int64),
			fallbacks:      make(map[string]int64),
		},
	}
}

// SetHTTPMetricsSource wires in the middleware's request counters
func (h *MetricsHandler) SetHTTPMetricsSource(src HTTPMetricsSource) {
	h.httpMetrics = src
}

// RecordUpstreamCall records one call to an upstream provider
func (h *MetricsHandler) RecordUpstreamCall(ctx context.Context, provider string, success bool) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.upstreamCalls[provider]++
	if !success {
		h.appMetrics.upstreamErrors[provider]++
	}
	h.appMetrics.mutex.Unlock()
}

// RecordFallback records one degradation to synthetic/fallback data
func (h *MetricsHandler) RecordFallback(ctx context.Context, component string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.fallbacks[component]++
	h.appMetrics.mutex.Unlock()
}

// ServeMetrics exposes the collected counters in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()

	// Build simple text metrics response
	response := ""

	// HTTP Metrics (if available)
	if h.httpMetrics != nil {
		requestsTotal, avgDuration, activeRequests := h.httpMetrics.Snapshot()

		response += "# HELP http_requests_total Total number of HTTP requests\n"
		response += "# TYPE http_requests_total counter\n"
		for key, count := range requestsTotal {
			response += "http_requests_total{route_status=\"" + key + "\"} " + strconv.FormatInt(count, 10) + "\n"
		}

		response += "\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n"
		response += "# TYPE http_request_duration_seconds_avg gauge\n"
		response += "http_request_duration_seconds_avg " + strconv.FormatFloat(avgDuration, 'f', 6, 64) + "\n"

		response += "\n# HELP http_active_requests Number of active HTTP requests\n"
		response += "# TYPE http_active_requests gauge\n"
		response += "http_active_requests " + strconv.FormatInt(activeRequests, 10) + "\n"
	}

	// Application Metrics
	response += "\n# HELP upstream_calls_total Total upstream provider calls\n"
	response += "# TYPE upstream_calls_total counter\n"
	for provider, count := range h.appMetrics.upstreamCalls {
		response += "upstream_calls_total{provider=\"" + provider + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	response += "\n# HELP upstream_errors_total Total upstream provider errors\n"
	response += "# TYPE upstream_errors_total counter\n"
	for provider, count := range h.appMetrics.upstreamErrors {
		response += "upstream_errors_total{provider=\"" + provider + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	response += "\n# HELP fallback_responses_total Total synthetic/fallback responses served\n"
	response += "# TYPE fallback_responses_total counter\n"
	for component, count := range h.appMetrics.fallbacks {
		response += "fallback_responses_total{component=\"" + component + "\"} " + strconv.FormatInt(count, 10) + "\n"
	}

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, response)
}
