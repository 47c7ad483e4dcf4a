// Package http is the REST entry point of the tracking service: an echo server
// generated around openapi.yaml, with request validation, access logging,
// per-client rate limiting, metrics and health probes.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"tracking/internal/pkg/ratelimiter"
	"tracking/internal/pkg/requestid"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	apiPrefix = "/api/v1"

	// ProbeTimeout bounds each health probe.
	ProbeTimeout = 2 * time.Second
)

// Probe reports whether one dependency is usable.
type Probe func(ctx context.Context) error

// MetricsCollector observes requests and exposes the scrape endpoint.
type MetricsCollector interface {
	RequestObserver
	Handler() http.Handler
}

// Options are the collaborators of the echo instance built by NewEcho.
// Zero values disable the matching feature.
type Options struct {
	Logger  *slog.Logger
	Metrics MetricsCollector
	Limiter *ratelimiter.MapLimiter
	Probes  map[string]Probe
}

// NewEcho builds the echo instance serving the API, /health, /metrics and
// /swagger.
func NewEcho(server ServerInterface, opts Options) (*echo.Echo, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(requestid.Middleware())
	e.Use(AccessLog(logger))
	if opts.Metrics != nil {
		e.Use(Metrics(opts.Metrics))
	}
	e.Use(middleware.Recover())
	e.Use(RateLimit(opts.Limiter))
	e.Use(validator)

	RegisterHandlers(e, server)

	e.GET("/health", healthHandler(opts.Probes))
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}

	if err = registerSwagger(e, doc); err != nil {
		return nil, err
	}

	return e, nil
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(probes map[string]Probe) echo.HandlerFunc {
	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c echo.Context) error {
		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		code := http.StatusOK

		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request().Context(), ProbeTimeout)
			err := probes[name](ctx)
			cancel()

			if err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "unavailable"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		return c.JSON(code, resp)
	}
}
