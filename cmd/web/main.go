package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/juho05/log"

	dash "github.com/juho05/sensor-dash"
	"github.com/juho05/sensor-dash/api"
	"github.com/juho05/sensor-dash/config"
	"github.com/juho05/sensor-dash/handlers"
	"github.com/juho05/sensor-dash/repos/connect"
	"github.com/juho05/sensor-dash/services"
)

func run(ctx context.Context) error {
	handler := handlers.NewHandler()

	db, err := connect.Connect(config.DBDriver(), config.DBConnection(), config.AutoMigrate())
	if err != nil {
		return fmt.Errorf("Failed to connect to database: %w", err)
	}
	defer db.Close()

	handler.SessionManager = scs.New()
	handler.SessionManager.Store = db.NewSessionRepository()
	handler.SessionManager.Lifetime = config.SessionLifetime()
	handler.SessionManager.IdleTimeout = config.SessionIdleTimeout()
	handler.SessionManager.Cookie.Persist = config.SessionPersist()
	handler.SessionManager.Cookie.Secure = config.CookieSecure()
	handler.SessionManager.Cookie.SameSite = http.SameSiteLaxMode

	apiClient := api.NewClient(config.APIURL(), &http.Client{
		Timeout: 30 * time.Second,
	})

	handler.Apps = services.NewAppRegistry(apiClient, services.NewCookieSnapshotStorage(handler.SessionManager), services.SessionPaths{
		Login:     config.LoginPath(),
		Dashboard: config.DashboardPath(),
	})
	go handler.Apps.RunCleanup(ctx, 10*time.Minute, config.AppIdleTimeout())

	handler.Guard = services.NewRouteGuard(config.LoginPath(), config.DashboardPath(), config.PublicPaths()...)

	handler.Renderer, err = handlers.NewRenderer(dash.HTMLFS)
	if err != nil {
		return fmt.Errorf("Failed to initialize renderer: %w", err)
	}

	handler.StaticFS = dash.StaticFS
	handler.CORSOrigins = config.CORSOrigins()
	handler.RegisterRoutes()

	cert := config.TLSCert()
	key := config.TLSKey()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port()),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s (%s, monitor API: %s)...", server.Addr, config.BaseURL(), config.APIURL())
		if cert != "" && key != "" {
			errs <- server.ListenAndServeTLS(cert, key)
		} else {
			errs <- server.ListenAndServe()
		}
	}()

	select {
	case err = <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("Failed to shut down server: %w", err)
	}
	return nil
}

func main() {
	godotenv.Load()

	log.SetSeverity(config.LogLevel())
	log.SetOutput(config.LogFile())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		log.Fatalf("%s", err)
	}
}
