package middleware

import (
	"strconv"
	"time"

	"backoffice-service/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and duration per route template
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if prometheus.HttpRequestsTotal == nil {
				return err
			}

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			prometheus.HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
			prometheus.HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
