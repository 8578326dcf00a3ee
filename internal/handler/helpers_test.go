package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurkanbulca/taskapi/internal/database/dbtest"
	"github.com/gurkanbulca/taskapi/internal/middleware"
	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
	"github.com/gurkanbulca/taskapi/internal/service"
	"github.com/gurkanbulca/taskapi/pkg/auth"
)

const cookieName = "session"

type apiEnv struct {
	t         *testing.T
	e         *echo.Echo
	tasks     *repository.TaskRepository
	users     *repository.UserRepository
	passwords *auth.PasswordManager
	errorLog  *bytes.Buffer
	security  *bytes.Buffer
}

func newAPIEnv(t *testing.T) *apiEnv {
	db := dbtest.Open(t)
	logger := log.New(io.Discard, "", 0)
	securityLog := &bytes.Buffer{}
	securityLogger := service.NewSecurityLogger(log.New(securityLog, "", 0))
	passwords := auth.NewPasswordManager().WithCost(bcrypt.MinCost)

	tasks := repository.NewTaskRepository(db)
	users := repository.NewUserRepository(db)
	verifier := service.NewCredentialVerifier(users, passwords)
	guard := service.NewGuard(tasks, securityLogger)

	errorLog := &bytes.Buffer{}
	e := NewServer(Deps{
		Tasks:    service.NewTaskService(tasks, verifier, guard, securityLogger, service.TaskServiceConfig{PageSize: 20, MaxPageSize: 100}),
		Users:    service.NewUserService(users, verifier, passwords, securityLogger),
		Sessions: middleware.NewSessions(auth.NewSessionManager("test-secret", time.Hour), cookieName, false, securityLogger),
		Logger:   logger,
		ErrorLog: errorLog,
	})

	return &apiEnv{t: t, e: e, tasks: tasks, users: users, passwords: passwords, errorLog: errorLog, security: securityLog}
}

// seed creates michael (owner of tasks 1 and 2), fletcher and an admin.
func (a *apiEnv) seed() {
	michael := a.createUser("michael", "python", models.RoleUser)
	a.createUser("fletcher", "python101", models.RoleUser)
	a.createUser("administrateur", "admin123", models.RoleAdmin)

	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	for _, in := range []*repository.TaskInput{
		{Name: "Run around in circles", DueDate: day(2015, 10, 22), Priority: 10, PostedDate: day(2015, 10, 5), Status: 1, UserID: michael.ID},
		{Name: "Purchase Real Python", DueDate: day(2016, 2, 23), Priority: 10, PostedDate: day(2016, 2, 7), Status: 1, UserID: michael.ID},
	} {
		_, err := a.tasks.Create(context.Background(), in)
		require.NoError(a.t, err)
	}
}

func (a *apiEnv) createUser(name, password, role string) *models.User {
	hash, err := a.passwords.HashPassword(password)
	require.NoError(a.t, err)
	u, err := a.users.Create(context.Background(), &models.User{
		Name:     name,
		Email:    name + "@example.com",
		Password: hash,
		Role:     role,
	})
	require.NoError(a.t, err)
	return u
}

func (a *apiEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *apiEnv) form(method, target string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.do(req, cookies...)
}

func (a *apiEnv) json(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return a.do(req, cookies...)
}

func (a *apiEnv) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, target, nil), cookies...)
}

func (a *apiEnv) login(name, password string) *http.Cookie {
	rec := a.form(http.MethodPost, "/api/v1/sessions/", url.Values{"name": {name}, "password": {password}})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	a.t.Fatalf("login for %s set no session cookie", name)
	return nil
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[ErrorResponse](t, rec)
	require.Equal(t, message, body.Message)
}

func validTask() url.Values {
	return url.Values{
		"name":      {"Write the report"},
		"user_name": {"michael"},
		"password":  {"python"},
		"due_date":  {"22/01/2030"},
		"priority":  {"3"},
	}
}

func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}
