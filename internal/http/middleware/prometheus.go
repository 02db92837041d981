package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// UnmatchedRoute is the path label of requests that matched no route.
const UnmatchedRoute = "unmatched"

// Paths under these prefixes are not observed.
var unobservedPrefixes = []string{"/metrics", "/health", "/swagger"}

// PrometheusMiddleware holds the HTTP request collectors.
type PrometheusMiddleware struct {
	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestSize     *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// NewPrometheusMiddleware creates the collectors and registers them on reg.
func NewPrometheusMiddleware(reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	m := &PrometheusMiddleware{
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed.",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "Duration of HTTP requests.",
				// Analysis requests wait on the remote model for tens of seconds.
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"method", "path"},
		),
		requestSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "Size of HTTP request bodies; dominated by scan uploads.",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 9),
			},
			[]string{"method", "path"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "HTTP requests currently being served.",
		}),
	}

	for _, c := range []prometheus.Collector{m.requestCount, m.requestDuration, m.requestSize, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the fiber middleware handler.
func (m *PrometheusMiddleware) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if unobserved(c.Path()) {
			return c.Next()
		}

		m.inFlight.Inc()
		defer m.inFlight.Dec()

		own := c.Route()
		start := time.Now()
		err := c.Next()

		path := routeLabel(c, own)
		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.requestCount.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		if n := len(c.Request().Body()); n > 0 {
			m.requestSize.WithLabelValues(c.Method(), path).Observe(float64(n))
		}

		return err
	}
}

// routeLabel returns the route pattern (e.g. /scans/:id) so label cardinality stays bounded.
// Fiber leaves the last matched route on the context, so when the chain ends without a route
// past this middleware's own, the request matched nothing.
func routeLabel(c *fiber.Ctx, own *fiber.Route) string {
	r := c.Route()
	if r == nil || r == own || r.Path == "" {
		return UnmatchedRoute
	}
	return r.Path
}

func unobserved(path string) bool {
	for _, p := range unobservedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
