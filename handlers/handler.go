package handlers

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/juho05/sensor-dash/services"
)

type Handler struct {
	Router         chi.Router
	SessionManager *scs.SessionManager
	Apps           *services.AppRegistry
	Guard          *services.RouteGuard
	Renderer       Renderer
	StaticFS       fs.FS
	CORSOrigins    []string
}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Router.ServeHTTP(w, r)
}
