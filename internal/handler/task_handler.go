package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gurkanbulca/taskapi/internal/middleware"
	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/service"
)

// Response envelope keys.
const (
	keyTaskCreated = "Task created"
	keyTaskFound   = "Corresponding Task"
	keyTaskUpdated = "Task updated"
	keyTaskDeleted = "Task deleted"
)

// TaskHandler serves the task collection and item resources.
type TaskHandler struct {
	tasks *service.TaskService
}

func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// List handles GET /api/v1/tasks/.
func (h *TaskHandler) List(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), limit, offset)
	if err != nil {
		return err
	}

	out := make([]models.TaskDetail, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Detail())
	}
	return c.JSON(http.StatusOK, out)
}

// Create handles POST /api/v1/tasks/ with inline credentials.
func (h *TaskHandler) Create(c echo.Context) error {
	args, err := readArgs(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), args)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]models.TaskView{keyTaskCreated: task.View()})
}

// Get handles GET /api/v1/tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]models.TaskDetail{keyTaskFound: task.Detail()})
}

// Update handles PUT /api/v1/tasks/:id for the session user.
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	args, err := readArgs(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.tasks.UpdateTask(ctx, middleware.IdentityFromContext(ctx), id, args)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]models.TaskView{keyTaskUpdated: task.View()})
}

// Delete handles DELETE /api/v1/tasks/:id for the session user.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	task, err := h.tasks.DeleteTask(ctx, middleware.IdentityFromContext(ctx), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]models.TaskView{keyTaskDeleted: task.View()})
}
