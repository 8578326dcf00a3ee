// Package dbtest opens migrated in-memory SQLite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"entgo.io/ent/dialect"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/gurkanbulca/taskapi/internal/database"
)

// DSN returns a private shared-cache in-memory database name with foreign
// keys enabled.
func DSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
}

// Open returns a migrated store that is closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.Open(database.Config{Driver: dialect.SQLite, DSN: DSN()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}
