// internal/service/task_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
)

// TaskService composes validation, credential checks, authorization and
// storage into the task operations exposed by the API.
type TaskService struct {
	tasks          TaskStore
	verifier       *CredentialVerifier
	guard          *Guard
	securityLogger *SecurityLogger
	pageSize       int
	maxPageSize    int
	now            func() time.Time
}

// TaskServiceConfig holds the listing defaults.
type TaskServiceConfig struct {
	PageSize    int
	MaxPageSize int
}

func NewTaskService(tasks TaskStore, verifier *CredentialVerifier, guard *Guard, securityLogger *SecurityLogger, cfg TaskServiceConfig) *TaskService {
	if cfg.PageSize <= 0 {
		cfg.PageSize = repository.DefaultListLimit
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = cfg.PageSize
	}
	return &TaskService{
		tasks:          tasks,
		verifier:       verifier,
		guard:          guard,
		securityLogger: securityLogger,
		pageSize:       cfg.PageSize,
		maxPageSize:    cfg.MaxPageSize,
		now:            time.Now,
	}
}

// ListTasks returns one page of tasks. A non-positive limit selects the
// default page size.
func (s *TaskService) ListTasks(ctx context.Context, limit, offset int) ([]*models.Task, error) {
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	tasks, err := s.tasks.List(ctx, repository.ListFilter{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound()
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// CreateTask stores a task for the user named in the inline credentials.
// No session is involved.
func (s *TaskService) CreateTask(ctx context.Context, args Args) (*models.Task, error) {
	req, err := ParseCreateTask(args)
	if err != nil {
		return nil, err
	}

	user, err := s.verifier.Verify(ctx, req.UserName, req.Password)
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			s.securityLogger.LogCredentialsFailed(ctx, req.UserName, "task creation")
		}
		return nil, err
	}

	if err := ValidatePriority(req.Priority); err != nil {
		return nil, err
	}

	task, err := s.tasks.Create(ctx, &repository.TaskInput{
		Name:       req.Name,
		DueDate:    req.DueDate,
		Priority:   req.Priority,
		PostedDate: s.now().UTC(),
		Status:     models.TaskStatusOpen,
		UserID:     user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// UpdateTask applies the fields present in args to a task the caller may
// mutate. Nothing is written unless every present field is valid.
func (s *TaskService) UpdateTask(ctx context.Context, identity *models.Identity, id int64, args Args) (*models.Task, error) {
	if _, err := s.guard.Authorize(ctx, identity, id); err != nil {
		return nil, err
	}

	req, err := ParseUpdateTask(args)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.Update(ctx, id, &repository.TaskUpdateInput{
		Name:     req.Name,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Status:   req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound()
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task the caller may mutate and returns its last
// stored state.
func (s *TaskService) DeleteTask(ctx context.Context, identity *models.Identity, id int64) (*models.Task, error) {
	if _, err := s.guard.Authorize(ctx, identity, id); err != nil {
		return nil, err
	}

	task, err := s.tasks.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound()
		}
		return nil, fmt.Errorf("delete task: %w", err)
	}
	return task, nil
}
