package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/metrics"
)

// Metrics records request counts and latencies by matched route. It must run
// outside AccessLog, which resolves chain errors into response statuses.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(c.Response().StatusCode())).Inc()
		return err
	}
}
