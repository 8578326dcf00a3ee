package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

type recordedEvents struct {
	reasons []string
}

func (r *recordedEvents) LogSessionInvalid(_ context.Context, reason string) {
	r.reasons = append(r.reasons, reason)
}

func TestExtractClientInfo(t *testing.T) {
	e := echo.New()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: func() string { return "req-1" }}))
	e.Use(ExtractClientInfo())

	var info *ClientInfo
	e.GET("/", func(c echo.Context) error {
		info = GetClientInfoFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, "203.0.113.7")
	req.Header.Set("User-Agent", "curl/8.0")
	e.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, info)
	assert.Equal(t, "203.0.113.7", info.IPAddress)
	assert.Equal(t, "curl/8.0", info.UserAgent)
	assert.Equal(t, "req-1", info.RequestID)
	assert.Empty(t, info.UserID)
}

func sessionServer(manager *auth.SessionManager, events SessionEvents) (*echo.Echo, *Sessions, **models.Identity) {
	sessions := NewSessions(manager, "session", false, events)
	e := echo.New()
	e.Use(sessions.Middleware())

	var seen *models.Identity
	e.GET("/", func(c echo.Context) error {
		seen = IdentityFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	e.POST("/login", func(c echo.Context) error {
		if err := sessions.Start(c, &models.User{ID: 7, Name: "Tester", Role: models.RoleUser}); err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	return e, sessions, &seen
}

func TestSessions_StartAndResolve(t *testing.T) {
	events := &recordedEvents{}
	e, _, seen := sessionServer(auth.NewSessionManager("secret", time.Hour), events)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	e.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, *seen)
	assert.Equal(t, int64(7), (*seen).UserID)
	assert.Equal(t, "Tester", (*seen).UserName)
	assert.Empty(t, events.reasons)
}

func TestSessions_InvalidCookie(t *testing.T) {
	events := &recordedEvents{}
	e, _, seen := sessionServer(auth.NewSessionManager("secret", time.Hour), events)

	forged, _, err := auth.NewSessionManager("other-secret", time.Hour).Issue(1, "admin", models.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: forged})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, *seen)
	require.Len(t, events.reasons, 1)
	assert.Contains(t, events.reasons[0], auth.ErrInvalidToken.Error())
}

func TestSessions_ExpiredCookieIsNotReported(t *testing.T) {
	events := &recordedEvents{}
	e, _, seen := sessionServer(auth.NewSessionManager("secret", time.Hour), events)

	expired, _, err := auth.NewSessionManager("secret", -time.Minute).Issue(7, "Tester", models.RoleUser)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: expired})
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Nil(t, *seen)
	assert.Empty(t, events.reasons)
}

func TestErrorLog(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		want    string
	}{
		{name: "ok", handler: func(c echo.Context) error { return c.NoContent(http.StatusOK) }},
		{name: "not found", handler: func(echo.Context) error { return echo.ErrNotFound }, want: "404 error at"},
		{name: "unclassified", handler: func(echo.Context) error { return errors.New("boom") }, want: "500 error at"},
		{name: "panic", handler: func(echo.Context) error { panic("boom") }, want: "500 error at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			e := echo.New()
			e.Use(ErrorLog(&buf))
			e.Use(echomw.Recover())
			e.GET("/thing", tt.handler)

			e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/thing", nil))
			if tt.want == "" {
				assert.Empty(t, buf.String())
				return
			}
			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "/thing")
		})
	}
}
