package handler

import (
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/gurkanbulca/taskapi/internal/middleware"
	"github.com/gurkanbulca/taskapi/internal/service"
)

// Deps are the collaborators wired into the HTTP server.
type Deps struct {
	Tasks    *service.TaskService
	Users    *service.UserService
	Sessions *middleware.Sessions
	Logger   *log.Logger
	// ErrorLog receives 404 and 5xx records when set.
	ErrorLog io.Writer
}

// NewServer builds the echo instance serving the REST API.
func NewServer(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(deps.Logger)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.ExtractClientInfo())
	e.Use(deps.Sessions.Middleware())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.ErrorLog != nil {
		e.Use(middleware.ErrorLog(deps.ErrorLog))
	}
	e.Use(echomw.Recover())

	RegisterRoutes(e, NewTaskHandler(deps.Tasks), NewSessionHandler(deps.Users, deps.Sessions))
	return e
}

// RegisterRoutes mounts the API under /api/v1. Collection paths answer with
// and without the trailing slash.
func RegisterRoutes(e *echo.Echo, tasks *TaskHandler, sessions *SessionHandler) {
	api := e.Group("/api/v1")

	for _, path := range []string{"/tasks", "/tasks/"} {
		api.GET(path, tasks.List)
		api.POST(path, tasks.Create)
	}
	api.GET("/tasks/:id", tasks.Get)
	api.PUT("/tasks/:id", tasks.Update)
	api.DELETE("/tasks/:id", tasks.Delete)

	for _, path := range []string{"/users", "/users/"} {
		api.POST(path, sessions.Register)
	}
	for _, path := range []string{"/sessions", "/sessions/"} {
		api.POST(path, sessions.Login)
		api.DELETE(path, sessions.Logout)
	}
}
