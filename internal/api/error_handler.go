package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus lists the domain errors with a fixed HTTP status, checked in
// order with errors.Is.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrTaskNotFound, http.StatusNotFound},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrConstraintViolation, http.StatusBadRequest},
}

// NewHTTPErrorHandler renders every error returned by a handler as
// {"error": "<message>"}. Errors with no known mapping are logged and reach
// the client as a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := statusOf(err)
		switch {
		case code >= http.StatusInternalServerError:
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		case errors.Is(err, domain.ErrConstraintViolation):
			log.Warn().Err(err).Str("path", c.Path()).Msg("constraint violation")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func statusOf(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	for _, m := range domainStatus {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.err == domain.ErrValidation {
			return m.code, validationMessage(err)
		}
		// Only the sentinel text; wrapped causes name tables and columns.
		return m.code, m.err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// validationMessage drops the "validation failed: " prefix so the client sees
// the rule that was broken.
func validationMessage(err error) string {
	_, rest, ok := strings.Cut(err.Error(), domain.ErrValidation.Error()+": ")
	if !ok {
		return err.Error()
	}
	return rest
}
