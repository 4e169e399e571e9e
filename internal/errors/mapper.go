// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Map converts repo/infra errors into echo-friendly HTTP errors.
// Keeps service layer clean by centralizing error mapping.
//
// Duplicate-key violations from the store are the losing side of a
// uniqueness race; they become the same Conflict a sequential existence
// check would have produced, never a raw storage fault.
func Map(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found")

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return echo.NewHTTPError(http.StatusConflict, "already in that state")

	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusRequestTimeout, "request timed out")

	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(http.StatusBadRequest, "request was canceled")

	default:
		// fallback → bubble up error message for debugging
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// NotFound rejects references to unknown videos/users.
func NotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

// InvalidInput rejects missing/empty required fields and unsupported
// reaction kinds. Use this in service layer for bad input validation.
func InvalidInput(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// Conflict signals "this already happened": duplicate contest entries and
// self-subscription attempts.
func Conflict(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusConflict, msg)
}

// Forbidden covers wrong contest passwords and non-privileged access to
// entrant lists.
func Forbidden(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusForbidden, msg)
}

// Unauthorized rejects writes that require an authenticated user.
func Unauthorized(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

// ContestUnavailable rejects entries for videos without an active contest.
func ContestUnavailable(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
