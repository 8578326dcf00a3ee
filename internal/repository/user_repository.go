package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"

	"github.com/gurkanbulca/taskapi/internal/database"
	"github.com/gurkanbulca/taskapi/internal/models"
)

type UserRepository struct {
	db      *sqlx.DB
	builder *entsql.DialectBuilder
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{
		db:      db,
		builder: entsql.Dialect(db.DriverName()),
	}
}

// Create stores a user whose password is already hashed. A taken name or
// email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}

	insert := r.builder.Insert(database.UsersTable).
		Columns(
			database.UserColumnName,
			database.UserColumnEmail,
			database.UserColumnPassword,
			database.UserColumnRole,
		).
		Values(u.Name, u.Email, u.Password, role)

	id, err := insertReturningID(ctx, r.db, r.db.DriverName(), insert, database.UserColumnID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, entsql.EQ(database.UserColumnID, id))
}

// GetByName looks a user up by exact, case-sensitive name.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	return r.getBy(ctx, entsql.EQ(database.UserColumnName, name))
}

func (r *UserRepository) getBy(ctx context.Context, p *entsql.Predicate) (*models.User, error) {
	query, args := r.builder.Select(database.UserColumns...).
		From(entsql.Table(database.UsersTable)).
		Where(p).
		Query()

	var u models.User
	if err := sqlx.GetContext(ctx, r.db, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}
