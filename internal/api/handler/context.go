package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const headerIdempotencyKey = "Idempotency-Key"

// pathID parses the :id path parameter as a positive integer.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

// bindValid decodes the request body into req and validates it. Malformed
// bodies are rejected with 400, rule violations with 422.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

// createdOrReplayed is 201 for a new record and 200 for an idempotent replay.
func createdOrReplayed(alreadyExisted bool) int {
	if alreadyExisted {
		return http.StatusOK
	}
	return http.StatusCreated
}
