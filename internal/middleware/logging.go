// internal/middleware/logging.go
package middleware

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestLogger logs every completed request in the server's log format.
func RequestLogger(logger *log.Logger) echo.MiddlewareFunc {
	if logger == nil {
		logger = log.Default()
	}
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			clientInfo := GetClientInfoFromContext(c.Request().Context())
			logLevel := "INFO"
			if v.Status >= http.StatusInternalServerError {
				logLevel = "ERROR"
			}
			logger.Printf("[%s] %s %s %d completed in %v (user: %s, ip: %s)",
				logLevel, v.Method, v.URI, v.Status, v.Latency, clientInfo.UserID, v.RemoteIP)
			if v.Error != nil && v.Status >= http.StatusInternalServerError {
				logger.Printf("[ERROR] %s %s error: %v", v.Method, v.URI, v.Error)
			}
			return nil
		},
	})
}

// ErrorLog appends 404 and 5xx responses to w with a timestamp. It is the
// persistent record kept next to the request log.
func ErrorLog(w io.Writer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if sc, ok := err.(interface{ HTTPStatus() int }); ok {
					status = sc.HTTPStatus()
				} else {
					status = http.StatusInternalServerError
				}
			}
			if status == http.StatusNotFound || status >= http.StatusInternalServerError {
				timestamp := time.Now().Format("02-01-2006 15:04:05")
				_, _ = fmt.Fprintf(w, "\n%d error at %s: %s", status, timestamp, c.Request().URL.String())
			}
			return err
		}
	}
}
