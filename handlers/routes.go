package handlers

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/juho05/log"
)

const logoutPath = "/auth/logout"

func (h *Handler) registerMiddlewares() {
	h.Router.Use(recoverPanic)
	h.Router.Use(middleware.RealIP)
	h.Router.Use(middleware.RequestID)
	h.Router.Use(middleware.Timeout(60 * time.Second))
	h.Router.Use(logRequest)
	h.Router.Use(securityHeaders)
}

func (h *Handler) RegisterRoutes() {
	if h.Router == nil {
		h.Router = chi.NewRouter()
	}
	h.registerMiddlewares()

	h.registerStaticRoutes()

	h.Router.Group(func(r chi.Router) {
		r.Use(h.SessionManager.LoadAndSave, h.loadApp(true), h.guard)
		// unmatched paths are guarded like every other page
		r.NotFound(notFound)
		r.MethodNotAllowed(methodNotAllowed)
		if h.Guard.DashboardPath != "/" {
			r.Get("/", h.index)
		}
		r.Get(h.Guard.LoginPath, h.loginPage)
		r.Post(h.Guard.LoginPath, h.login)
		r.Get(h.Guard.DashboardPath, h.dashboard)
		r.Get("/sensors", h.sensorList)
		r.Post("/sensors/{id}", h.sensorUpdate)
		r.Get("/sensor-types", h.sensorTypeList)
		r.Get("/package-types", h.packageTypeList)
	})

	// logging out has to work in every session state
	h.Router.With(h.SessionManager.LoadAndSave, h.loadApp(false)).Post(logoutPath, h.logout)

	h.Router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           int((15 * time.Minute).Seconds()),
		}))
		r.Use(h.SessionManager.LoadAndSave, h.loadApp(false))
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, ErrNotFound, http.StatusNotFound, nil)
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, ErrMethodNotAllowed, http.StatusMethodNotAllowed, nil)
		})
		r.Get("/session", h.apiSession)
		r.Post("/session", h.apiLogin)
		r.Delete("/session", h.apiLogout)
		r.Group(func(r chi.Router) {
			r.Use(h.guardAPI)
			r.Get("/sensors", h.apiSensors)
			r.Post("/sensors/{id}", h.apiSensorUpdate)
			r.Get("/sensor-types", h.apiSensorTypes)
			r.Get("/package-types", h.apiPackageTypes)
		})
	})
}

func (h *Handler) registerStaticRoutes() {
	if h.StaticFS == nil {
		return
	}
	css, err := fs.Sub(h.StaticFS, "css")
	if err != nil {
		log.Fatalf("Failed to register css directory: %s", err)
	}
	h.Router.With(staticCache(7*24*time.Hour)).Handle("/static/css/*", http.StripPrefix("/static/css/", http.FileServer(http.FS(css))))

	h.Router.With(staticCache(24*time.Hour)).Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.StaticFS))))
}
