package service

import (
	"context"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
)

// TaskStore is the persistence surface used by TaskService.
type TaskStore interface {
	Create(ctx context.Context, in *repository.TaskInput) (*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*models.Task, error)
	Update(ctx context.Context, id int64, input *repository.TaskUpdateInput) (*models.Task, error)
	Delete(ctx context.Context, id int64) (*models.Task, error)
}

// UserStore is the persistence surface used for accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
}

var (
	_ TaskStore = (*repository.TaskRepository)(nil)
	_ UserStore = (*repository.UserRepository)(nil)
)
