// Package connect opens the session database selected by the configuration.
package connect

import (
	"fmt"

	"github.com/juho05/sensor-dash/repos"
	"github.com/juho05/sensor-dash/repos/postgres"
	"github.com/juho05/sensor-dash/repos/sqlite"
)

func Connect(driver, connectionString string, autoMigrate bool) (repos.DB, error) {
	var db repos.DB
	var err error
	switch driver {
	case "sqlite":
		db, err = sqlite.Connect(connectionString, autoMigrate)
	case "postgres":
		db, err = postgres.Connect(connectionString, autoMigrate)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate applies pending migrations without keeping a connection open.
func Migrate(driver, connectionString string) (int, error) {
	switch driver {
	case "sqlite":
		db, err := sqlite.Connect(connectionString, false)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		return sqlite.Migrate(db.Raw())
	case "postgres":
		return postgres.Migrate(connectionString)
	default:
		return 0, fmt.Errorf("unsupported database driver: %s", driver)
	}
}
