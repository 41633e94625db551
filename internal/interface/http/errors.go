package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/classroll/attendance-tracker/internal/domain/shared"
	"github.com/classroll/attendance-tracker/pkg/logger"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps a tracker error onto an HTTP status and an error code.
func statusFor(err error) (int, string) {
	switch {
	case shared.IsValidation(err):
		return http.StatusBadRequest, "invalid_input"
	case shared.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case shared.IsAlreadyExists(err):
		return http.StatusConflict, "already_exists"
	case shared.IsParse(err):
		return http.StatusInternalServerError, "corrupt_document"
	case shared.IsStorage(err):
		return http.StatusInternalServerError, "storage_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// handleError is the echo error handler.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code int
		body errorResponse
	)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		body = errorResponse{Error: http.StatusText(he.Code), Message: errorMessage(he)}
	} else {
		var kind string
		code, kind = statusFor(err)
		body = errorResponse{Error: kind, Message: err.Error()}
	}

	if code >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed",
			logger.Path(c.Request().URL.Path),
			logger.Err(err),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, body)
	}
	if writeErr != nil {
		s.logger.Warn("write error response", logger.Err(writeErr))
	}
}

func errorMessage(he *echo.HTTPError) string {
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return http.StatusText(he.Code)
}
