package db

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationDialect = "postgres"

// Direction selects which way Migrate runs.
type Direction = migrate.MigrationDirection

// Migration directions.
const (
	Up   Direction = migrate.Up
	Down Direction = migrate.Down
)

func migrationSource() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
}

// Migrate applies (Up) or reverts (Down) embedded schema migrations and
// returns how many ran. A max of 0 means no limit.
func (db *DB) Migrate(ctx context.Context, dir Direction, max int) (int, error) {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("opening migration connection: %w", err)
	}

	n, err := migrate.ExecMax(sqlDB, migrationDialect, migrationSource(), dir, max)
	if err != nil {
		return n, fmt.Errorf("running migrations: %w", err)
	}
	return n, nil
}

// PendingMigrations lists the ids of migrations not yet applied.
func (db *DB) PendingMigrations(ctx context.Context) ([]string, error) {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("opening migration connection: %w", err)
	}

	planned, _, err := migrate.PlanMigration(sqlDB, migrationDialect, migrationSource(), migrate.Up, 0)
	if err != nil {
		return nil, fmt.Errorf("planning migrations: %w", err)
	}
	ids := make([]string, len(planned))
	for i, m := range planned {
		ids[i] = m.Id
	}
	return ids, nil
}
