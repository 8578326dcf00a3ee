package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gurkanbulca/taskapi/internal/models"
	"github.com/gurkanbulca/taskapi/internal/repository"
)

// Guard authorizes task mutations. It checks, in order, that the caller has
// a session, that the task exists and that the caller owns it or is an
// admin.
type Guard struct {
	tasks          TaskStore
	securityLogger *SecurityLogger
}

func NewGuard(tasks TaskStore, securityLogger *SecurityLogger) *Guard {
	return &Guard{
		tasks:          tasks,
		securityLogger: securityLogger,
	}
}

// Authorize returns the task identity may mutate, or a classified error.
func (g *Guard) Authorize(ctx context.Context, identity *models.Identity, taskID int64) (*models.Task, error) {
	if identity == nil {
		g.securityLogger.LogSessionMissing(ctx, taskID)
		return nil, ErrNotLoggedIn()
	}

	task, err := g.tasks.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound()
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	if err := g.CheckOwnership(ctx, identity, task); err != nil {
		return nil, err
	}
	return task, nil
}

// CheckOwnership lets admins through and otherwise requires the caller to
// own the task.
func (g *Guard) CheckOwnership(ctx context.Context, identity *models.Identity, task *models.Task) error {
	if identity.IsAdmin() {
		if identity.UserID != task.UserID {
			g.securityLogger.LogAdminOverride(ctx, identity, task)
		}
		return nil
	}
	if identity.UserID != task.UserID {
		g.securityLogger.LogAccessDenied(ctx, identity, task)
		return ErrNotOwner()
	}
	return nil
}
