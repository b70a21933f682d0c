package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophcal/internal/common"
	"github.com/labstack/echo/v4"
)

// Response messages. Bodies are bare JSON strings.
const (
	MsgRegistered         = "User registered successfully"
	MsgUsernameExists     = "Username already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgScheduleAdded      = "Schedule added"
	MsgScheduleDeleted    = "Schedule deleted"
	MsgScheduleNotFound   = "Schedule not found"
	MsgInvalidBody        = "Invalid request body"
	MsgInvalidID          = "Invalid id"
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidToken       = "Invalid token"
	MsgTooManyRequests    = "Too many requests"
	MsgInternal           = "Internal server error"
)

// statusFor maps a service error onto a status code and client message.
// Anything unrecognised is a 500; internal details never reach the client.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorDuplicateUsername):
		return http.StatusBadRequest, MsgUsernameExists
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, MsgInvalidCredentials
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, MsgInvalidToken
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, MsgScheduleNotFound
	default:
		return http.StatusInternalServerError, MsgInternal
	}
}

func (h *Handler) fail(c echo.Context, err error) error {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
	}
	return c.JSON(status, msg)
}
