package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskapi/internal/database"
	"github.com/gurkanbulca/taskapi/internal/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type TaskRepository struct {
	db      *sqlx.DB
	builder *entsql.DialectBuilder
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{
		db:      db,
		builder: entsql.Dialect(db.DriverName()),
	}
}

// Create stores a new task and returns it with its assigned identifier.
func (r *TaskRepository) Create(ctx context.Context, in *TaskInput) (*models.Task, error) {
	insert := r.builder.Insert(database.TasksTable).
		Columns(
			database.TaskColumnName,
			database.TaskColumnDueDate,
			database.TaskColumnPriority,
			database.TaskColumnPostedDate,
			database.TaskColumnStatus,
			database.TaskColumnUserID,
		).
		Values(
			in.Name,
			models.Date(in.DueDate),
			in.Priority,
			models.Date(in.PostedDate),
			in.Status,
			in.UserID,
		)

	id, err := insertReturningID(ctx, r.db, r.db.DriverName(), insert, database.TaskColumnID)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return r.get(ctx, r.db, id)
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	return r.get(ctx, r.db, id)
}

func (r *TaskRepository) get(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Task, error) {
	query, args := r.builder.Select(database.TaskColumns...).
		From(entsql.Table(database.TasksTable)).
		Where(entsql.EQ(database.TaskColumnID, id)).
		Query()

	var t models.Task
	if err := sqlx.GetContext(ctx, q, &t, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return &t, nil
}

// List returns one page of tasks in ascending identifier order.
func (r *TaskRepository) List(ctx context.Context, filter ListFilter) ([]*models.Task, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query, args := r.builder.Select(database.TaskColumns...).
		From(entsql.Table(database.TasksTable)).
		OrderBy(database.TaskColumnID).
		Limit(limit).
		Offset(offset).
		Query()

	tasks := make([]*models.Task, 0, limit)
	if err := sqlx.SelectContext(ctx, r.db, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the present fields of input in a single transaction and
// returns the stored task.
func (r *TaskRepository) Update(ctx context.Context, id int64, input *TaskUpdateInput) (*models.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}

	if !input.Empty() {
		update := r.builder.Update(database.TasksTable).
			Where(entsql.EQ(database.TaskColumnID, id))
		if name, ok := input.Name.Get(); ok {
			update = update.Set(database.TaskColumnName, name)
		}
		if due, ok := input.DueDate.Get(); ok {
			update = update.Set(database.TaskColumnDueDate, models.Date(due))
		}
		if priority, ok := input.Priority.Get(); ok {
			update = update.Set(database.TaskColumnPriority, priority)
		}
		if status, ok := input.Status.Get(); ok {
			update = update.Set(database.TaskColumnStatus, status)
		}

		query, args := update.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, rollback(tx, fmt.Errorf("update task %d: %w", id, err))
		}
	}

	// MySQL counts changed rows, not matched ones, so existence is decided
	// by the re-read.
	t, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, rollback(tx, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task %d: %w", id, err)
	}
	return t, nil
}

// Delete removes a task and returns the row as it was before deletion.
func (r *TaskRepository) Delete(ctx context.Context, id int64) (*models.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}

	t, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, rollback(tx, err)
	}

	query, args := r.builder.Delete(database.TasksTable).
		Where(entsql.EQ(database.TaskColumnID, id)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, rollback(tx, fmt.Errorf("delete task %d: %w", id, err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task %d: %w", id, err)
	}
	return t, nil
}

// Types for repository input
type TaskInput struct {
	Name       string
	DueDate    time.Time
	Priority   int
	PostedDate time.Time
	Status     int
	UserID     int64
}

type TaskUpdateInput struct {
	Name     models.Optional[string]
	DueDate  models.Optional[time.Time]
	Priority models.Optional[int]
	Status   models.Optional[int]
}

// Empty reports whether no field is present.
func (u *TaskUpdateInput) Empty() bool {
	return !u.Name.Set && !u.DueDate.Set && !u.Priority.Set && !u.Status.Set
}

// ListFilter selects one page of tasks.
type ListFilter struct {
	Limit  int
	Offset int
}
