package http

import (
	"errors"
	"log/slog"
	"net/http"

	"tracking/internal/core/domain/model/parcel"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor maps an application error to the HTTP status it is reported with.
func statusFor(err error) int {
	var httpErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, ports.ErrPackageLocked):
		return http.StatusConflict
	case errors.Is(err, parcel.ErrInvalidTransition),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorHandler renders every error returned by a handler or middleware as
// an Error body. Internal failures are logged and reported without detail.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		message := err.Error()

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			message = http.StatusText(code)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, Error{Code: code, Message: message})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "failed to write error response", "error", err)
		}
	}
}
