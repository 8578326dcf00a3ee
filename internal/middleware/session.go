// internal/middleware/session.go
package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

// Sessions resolves the session cookie into an identity. It never rejects a
// request: public routes ignore the identity and guarded operations decide
// what a missing one means.
type Sessions struct {
	manager    *auth.SessionManager
	cookieName string
	secure     bool
	events     SessionEvents
}

// SessionEvents records session cookies that fail verification.
type SessionEvents interface {
	LogSessionInvalid(ctx context.Context, reason string)
}

// NewSessions creates the session middleware
func NewSessions(manager *auth.SessionManager, cookieName string, secure bool, events SessionEvents) *Sessions {
	return &Sessions{
		manager:    manager,
		cookieName: cookieName,
		secure:     secure,
		events:     events,
	}
}

// Middleware returns the echo middleware that populates the identity.
func (s *Sessions) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(s.cookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := s.manager.Parse(cookie.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrExpiredToken) && s.events != nil {
					s.events.LogSessionInvalid(c.Request().Context(), err.Error())
				}
				return next(c)
			}

			identity := &models.Identity{
				UserID:   claims.UserID,
				UserName: claims.UserName,
				Role:     claims.Role,
			}
			c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), identity)))
			return next(c)
		}
	}
}

// Start issues a session for user and sets it on the response.
func (s *Sessions) Start(c echo.Context, user *models.User) error {
	token, expiresAt, err := s.manager.Issue(user.ID, user.Name, user.Role)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.manager.Duration().Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// End clears the session cookie.
func (s *Sessions) End(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
