package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/juho05/log"
	migrate "github.com/rubenv/sql-migrate"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	dash "github.com/juho05/sensor-dash"
	"github.com/juho05/sensor-dash/repos"
)

type DB struct {
	db *sql.DB
}

// Migrate applies all pending migrations and returns their number.
func Migrate(db *sql.DB) (int, error) {
	migrations := &migrate.HttpFileSystemMigrationSource{
		FileSystem: http.FS(dash.SQLiteMigrationsFS),
	}
	log.Trace("Migrating database...")
	n, err := migrate.Exec(db, "sqlite3", migrations, migrate.Up)
	log.Tracef("Applied %d migrations!", n)
	if err != nil {
		return n, fmt.Errorf("migrate: %w", err)
	}
	return n, nil
}

func Connect(connectionString string, autoMigrate bool) (*DB, error) {
	rawDB, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	_, err = rawDB.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	_, err = rawDB.Exec("PRAGMA busy_timeout = 3000")
	if err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if autoMigrate {
		_, err = Migrate(rawDB)
		if err != nil {
			rawDB.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	return &DB{
		db: rawDB,
	}, nil
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func repoErr(format string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		err = repos.ErrNoRecord
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY) {
		err = repos.ErrExists
	}
	return fmt.Errorf(format, err)
}
