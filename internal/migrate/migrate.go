package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var schemaFS embed.FS

// Apply brings the storefront schema up to date from the embedded migration
// files. Running against an up-to-date database is a no-op.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	m, cleanup, err := newMigrator(ctx, pool.Config().ConnString())
	if err != nil {
		return err
	}
	defer cleanup()

	err = m.Up()
	switch {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("migrate up: %w (hint: every migration version needs both `.up.sql` and `.down.sql` files)", err)
	default:
		return fmt.Errorf("migrate up: %w", err)
	}
}

// newMigrator wires the embedded source to a database/sql handle. golang-migrate
// drives database/sql, so it gets its own connection via the pgx stdlib driver
// rather than sharing the pool.
func newMigrator(ctx context.Context, dsn string) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(schemaFS, "sql")
	if err != nil {
		return nil, nil, fmt.Errorf("init iofs source: %w", err)
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open sql db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("ping sql db: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("init postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("init migrate: %w", err)
	}
	return m, func() { m.Close() }, nil
}
