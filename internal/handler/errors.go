package handler

import (
	"log/slog"
	"net/http"

	"paystack-storefront/internal/apperr"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type ErrorHandler struct {
	logger *slog.Logger
}

func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

// HandleHTTPError is installed as echo's HTTPErrorHandler. Errors that are
// neither AppError nor echo.HTTPError are logged and answered with a generic
// 500.
func (h *ErrorHandler) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	if appErr, ok := apperr.As(err); ok {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			h.logger.Warn("request failed",
				slog.String("code", appErr.ErrorCode()),
				slog.String("path", c.Request().URL.Path))
		}
		_ = Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details(), appErr.Retryable())
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		_ = Error(c, httpErr.Code, "HTTP_ERROR", message, "", false)
		return
	}

	h.logger.Error("unhandled error",
		slog.Any("error", err),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error, please try again later", "", false)
}
