package handlers

import (
	"errors"
	"net/http"

	"github.com/juho05/log"

	"github.com/juho05/sensor-dash/services"
)

type loginForm struct {
	Email    string `form:"email" validate:"required,notblank,email"`
	Password string `form:"password" validate:"required"`
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Guard.DashboardPath, http.StatusSeeOther)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.render(w, http.StatusOK, "login", h.newTemplateData(r))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body loginForm
	fields, err := decodeAndValidateForm(r, &body)
	if err != nil {
		badRequest(w)
		return
	}
	if fields != nil {
		data := h.newTemplateData(r)
		data.Form = body
		data.FieldErrors = fields
		h.Renderer.render(w, http.StatusUnprocessableEntity, "login", data)
		return
	}

	app := appFromContext(r.Context())
	nav := &redirector{}
	err = app.Session.Login(r.Context(), nav, body.Email, body.Password)
	if err != nil {
		data := h.newTemplateData(r)
		body.Password = ""
		data.Form = body
		data.Errors = append(data.Errors, services.MustTranslate(data.Lang, "invalidCredentials"))
		status := http.StatusUnauthorized
		if errors.Is(err, services.ErrTransport) {
			status = http.StatusBadGateway
		}
		h.Renderer.render(w, status, "login", data)
		return
	}

	err = h.SessionManager.RenewToken(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	log.Tracef("Client %s logged in as %s", app.ID, body.Email)
	nav.redirect(w, r, h.Guard.DashboardPath)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	nav := &redirector{}
	app.Session.Logout(r.Context(), nav)
	err := h.SessionManager.RenewToken(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	nav.redirect(w, r, h.Guard.LoginPath)
}
