package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/observabil/steward/pkg/log"
	"github.com/observabil/steward/pkg/metrics"
)

/**
 * @file: access_log.go
 * @description: request access log
 */

func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		metrics.HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		log.Infow("access",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"ip", c.IP(),
			"elapsed", time.Since(start),
		)
		return err
	}
}
