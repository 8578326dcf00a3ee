package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gurkanbulca/taskapi/internal/service"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// MessageResponse is the body of a successful request that returns no data.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorHandler renders service errors with their mapped status and hides
// the detail of anything unclassified behind a 500.
func ErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = log.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   ErrorResponse
			svcErr *service.Error
			echErr *echo.HTTPError
		)
		switch {
		case errors.As(err, &svcErr):
			status = svcErr.HTTPStatus()
			body = ErrorResponse{Message: svcErr.Message, Field: svcErr.Field}
		case errors.As(err, &echErr):
			status = echErr.Code
			body = ErrorResponse{Message: fmt.Sprint(echErr.Message)}
			if status >= http.StatusInternalServerError {
				logger.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
			}
		default:
			status = http.StatusInternalServerError
			body = ErrorResponse{Message: http.StatusText(http.StatusInternalServerError)}
			logger.Printf("[ERROR] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Printf("[ERROR] write error response: %v", writeErr)
		}
	}
}
