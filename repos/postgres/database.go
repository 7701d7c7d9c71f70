package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/juho05/log"
	migrate "github.com/rubenv/sql-migrate"

	dash "github.com/juho05/sensor-dash"
	"github.com/juho05/sensor-dash/repos"
)

type DB struct {
	pool *pgxpool.Pool
}

// Migrate applies all pending migrations and returns their number.
func Migrate(dsn string) (int, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	defer db.Close()
	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(dash.PostgresMigrationsFS),
	}
	log.Trace("Migrating database...")
	n, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	log.Tracef("Applied %d migrations!", n)
	if err != nil {
		return n, fmt.Errorf("migrate: %w", err)
	}
	return n, nil
}

func Connect(dsn string, autoMigrate bool) (*DB, error) {
	log.Tracef("Connecting to Postgres database...")
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("connect DB: %w", err)
	}
	if autoMigrate {
		_, err = Migrate(dsn)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return &DB{
		pool: pool,
	}, nil
}

func (d *DB) Close() error {
	d.pool.Close()
	return nil
}

func repoErr(format string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		err = repos.ErrNoRecord
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgerrcode.UniqueViolation || strings.Contains(pgErr.ConstraintName, "pkey") {
			err = repos.ErrExists
		}
	}
	return fmt.Errorf(format, err)
}
