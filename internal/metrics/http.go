package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpMetrics holds HTTP-specific metric instruments.
type httpMetrics struct {
	requestCounter     metric.Int64Counter
	rateLimitedCounter metric.Int64Counter
	durationHisto      metric.Float64Histogram
}

func newHTTPMetrics(meterProvider metric.MeterProvider, namespace string) (*httpMetrics, error) {
	meter := meterProvider.Meter(namespace)

	requestCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_requests_total", namespace),
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	rateLimitedCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_http_rate_limited_total", namespace),
		metric.WithDescription("Requests rejected with 429 Too Many Requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_http_request_duration_seconds", namespace),
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &httpMetrics{
		requestCounter:     requestCounter,
		rateLimitedCounter: rateLimitedCounter,
		durationHisto:      durationHisto,
	}, nil
}

// HTTPMetricsMiddleware returns a Gin middleware that records request counts and durations
// with method, path and status_code labels, and counts 429 responses per path. The path is
// the route template (e.g., /v1/secrets/*name) so secret names never become label values.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	metrics, err := newHTTPMetrics(meterProvider, namespace)
	if err != nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		ctx := c.Request.Context()
		path := sanitizePath(c.FullPath())
		status := c.Writer.Status()

		attrs := metric.WithAttributes(
			attribute.String("method", c.Request.Method),
			attribute.String("path", path),
			attribute.String("status_code", strconv.Itoa(status)),
		)
		metrics.requestCounter.Add(ctx, 1, attrs)
		metrics.durationHisto.Record(ctx, time.Since(start).Seconds(), attrs)

		if status == http.StatusTooManyRequests {
			metrics.rateLimitedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
		}
	}
}

// sanitizePath returns the route template, or "unknown" when no route matched.
func sanitizePath(fullPath string) string {
	if fullPath == "" {
		return "unknown"
	}
	return fullPath
}
