package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/juho05/log"

	"github.com/juho05/sensor-dash/api"
	"github.com/juho05/sensor-dash/config"
	"github.com/juho05/sensor-dash/repos/connect"
	"github.com/juho05/sensor-dash/services"
)

const usage = `USAGE sensor-dash-cli <command>
COMMANDS
		- migrate
		- sessions
		- purge-sessions
		- check-login <email> <password>
		`

func migrate() error {
	n, err := connect.Migrate(config.DBDriver(), config.DBConnection())
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Printf("Applied %d migrations.\n", n)
	return nil
}

func sessions() error {
	db, err := connect.Connect(config.DBDriver(), config.DBConnection(), config.AutoMigrate())
	if err != nil {
		return err
	}
	defer db.Close()
	all, err := db.NewSessionRepository().AllCtx(context.Background())
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	fmt.Printf("%d active sessions.\n", len(all))
	return nil
}

func purgeSessions() error {
	db, err := connect.Connect(config.DBDriver(), config.DBConnection(), config.AutoMigrate())
	if err != nil {
		return err
	}
	defer db.Close()
	n, err := db.NewSessionRepository().DeleteExpired(context.Background())
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	fmt.Printf("Deleted %d expired sessions.\n", n)
	return nil
}

func checkLogin(args []string) error {
	if len(args) < 2 {
		fmt.Println("USAGE sensor-dash-cli check-login <email> <password>")
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := api.NewClient(config.APIURL(), http.DefaultClient)
	store := services.NewSessionStore(client, services.NewMemorySnapshotStorage(), services.SessionPaths{
		Login:     config.LoginPath(),
		Dashboard: config.DashboardPath(),
	})
	err := store.Login(ctx, services.NavigatorFunc(func(path string) {
		log.Tracef("navigate to %s", path)
	}), args[0], args[1])
	if err != nil {
		if errors.Is(err, services.ErrTransport) {
			return fmt.Errorf("monitor API at %s is unreachable: %w", config.APIURL(), err)
		}
		return err
	}
	fmt.Printf("Logged in as %s <%s> (role: %s).\n", store.UserName(), store.UserEmail(), store.UserRole())
	return nil
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}
	var err error
	switch args[0] {
	case "migrate":
		err = migrate()
	case "sessions":
		err = sessions()
	case "purge-sessions":
		err = purgeSessions()
	case "check-login":
		err = checkLogin(args[1:])
	default:
		err = fmt.Errorf("unknown command: %s", args[0])
	}
	return err
}

func main() {
	godotenv.Load()

	log.SetSeverity(config.LogLevel())
	log.SetOutput(config.LogFile())

	err := run(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("Done.")
}
