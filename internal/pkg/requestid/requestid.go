// Package requestid carries a per-request identifier through echo handlers,
// the context and the logs.
package requestid

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	Header      = echo.HeaderXRequestID
	maxIDLength = 128
)

var validID = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

type contextKey struct{}

func WithContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(contextKey{}).(string)
	return requestID
}

// LoggerExtractor adds request_id to records logged with a request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if requestID := FromContext(ctx); requestID != "" {
			return slog.String("request_id", requestID), true
		}
		return slog.Attr{}, false
	}
}

// Middleware keeps a well-formed incoming X-Request-ID and generates one
// otherwise. The id is echoed in the response and stored in the request context.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(Header)
			if !isValid(id) {
				id = uuid.NewString()
			}

			c.Response().Header().Set(Header, id)
			c.SetRequest(c.Request().WithContext(WithContext(c.Request().Context(), id)))
			return next(c)
		}
	}
}

func isValid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	return validID.MatchString(id)
}
