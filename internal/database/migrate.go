package database

import (
	"context"
	"fmt"
	"log"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/jmoiron/sqlx"
)

// Migrate creates or upgrades the users and tasks tables.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	log.Println("🔄 Running auto migration...")
	drv := entsql.OpenDB(db.DriverName(), db.DB)
	migrate, err := schema.NewMigrate(
		drv,
		schema.WithDropIndex(true),
		schema.WithDropColumn(true),
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := migrate.Create(ctx, Tables()...); err != nil {
		return fmt.Errorf("run auto migration: %w", err)
	}
	log.Println("✅ Auto migration completed")
	return nil
}
