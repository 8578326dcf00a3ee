package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gurkanbulca/taskapi/internal/middleware"
	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/service"
)

// SessionHandler serves registration, login and logout.
type SessionHandler struct {
	users    *service.UserService
	sessions *middleware.Sessions
}

func NewSessionHandler(users *service.UserService, sessions *middleware.Sessions) *SessionHandler {
	return &SessionHandler{users: users, sessions: sessions}
}

// Register handles POST /api/v1/users/.
func (h *SessionHandler) Register(c echo.Context) error {
	args, err := readArgs(c)
	if err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), args)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]models.UserView{"User registered": user.View()})
}

// Login handles POST /api/v1/sessions/ and sets the session cookie.
func (h *SessionHandler) Login(c echo.Context) error {
	args, err := readArgs(c)
	if err != nil {
		return err
	}

	user, err := h.users.Login(c.Request().Context(), args)
	if err != nil {
		return err
	}
	if err := h.sessions.Start(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]models.UserView{"Logged in": user.View()})
}

// Logout handles DELETE /api/v1/sessions/ and clears the session cookie.
func (h *SessionHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	h.users.Logout(ctx, middleware.IdentityFromContext(ctx))
	h.sessions.End(c)
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}
