package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tracking/internal/pkg/ratelimiter"

	"github.com/labstack/echo/v4"
)

// RequestObserver records one served request.
type RequestObserver interface {
	ObserveRequest(method, route string, code int, elapsed time.Duration)
}

const unmatchedRoute = "unmatched"

// AccessLog writes one structured line per request. Errors are rendered
// before the line is written so the logged status is the one the client got.
func AccessLog(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			logger.Log(req.Context(), level, "http request",
				"method", req.Method,
				"path", req.URL.Path,
				"route", c.Path(),
				"status", status,
				"duration", time.Since(start),
				"remote_ip", c.RealIP(),
				"bytes_out", c.Response().Size,
			)

			return nil
		}
	}
}

// Metrics reports every request to the observer, labeled by route template.
func Metrics(observer RequestObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			observer.ObserveRequest(c.Request().Method, route, c.Response().Status, time.Since(start))

			return nil
		}
	}
}

// RateLimit rejects API requests with 429 once a client IP spends its token
// bucket. A nil limiter allows everything.
func RateLimit(limiter *ratelimiter.MapLimiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
				return next(c)
			}

			if !limiter.Allow(c.RealIP(), time.Now()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
