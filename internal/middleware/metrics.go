package middleware

import (
	"strconv"
	"time"

	"farmconnect-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// HTTPMetrics records request counts and latency per route template.
func HTTPMetrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		route := routeLabel(c)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// routeLabel uses the matched route template ("/api/v1/listings/:id") so ids
// don't blow up label cardinality.
func routeLabel(c *fiber.Ctx) string {
	if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
		return r.Path
	}
	return "unmatched"
}
