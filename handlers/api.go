package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/juho05/sensor-dash/services"
)

type sessionResponse struct {
	State    string         `json:"state"`
	IsLogged bool           `json:"isLogged"`
	User     *services.User `json:"user,omitempty"`
}

func (h *Handler) apiSession(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	sess := app.Session.Session()
	respond(w, http.StatusOK, sessionResponse{
		State:    sess.State.String(),
		IsLogged: sess.IsLogged,
		User:     sess.User,
	})
}

type apiLoginRequest struct {
	Email    string `json:"email" validate:"required,notblank,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) apiLogin(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[apiLoginRequest](r)
	if err != nil {
		badRequest(w)
		return
	}
	if err := services.Validate(body); err != nil {
		invalidFields(w, services.FieldErrors(language(r), err))
		return
	}

	app := appFromContext(r.Context())
	err = app.Session.Login(r.Context(), &redirector{}, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrTransport) {
			respondError(w, ErrUpstream, http.StatusBadGateway, nil)
			return
		}
		respondError(w, ErrInvalidCredentials, http.StatusUnauthorized, nil)
		return
	}
	err = h.SessionManager.RenewToken(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	h.apiSession(w, r)
}

func (h *Handler) apiLogout(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	app.Session.Logout(r.Context(), &redirector{})
	err := h.SessionManager.RenewToken(r.Context())
	if err != nil {
		serverError(w, err)
		return
	}
	h.apiSession(w, r)
}

type collectionResponse struct {
	Items []services.Record `json:"items"`
	Error string            `json:"error,omitempty"`
}

func (h *Handler) apiSensors(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	respondCollection(w, r, app.Sensors.ResourceStore)
}

func (h *Handler) apiSensorTypes(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	respondCollection(w, r, app.SensorTypes)
}

func (h *Handler) apiPackageTypes(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	respondCollection(w, r, app.PackageTypes)
}

// respondCollection refreshes store and responds with its items. A failed refresh is reported next to the
// previous items.
func respondCollection(w http.ResponseWriter, r *http.Request, store *services.ResourceStore[services.Record]) {
	res := collectionResponse{}
	if err := store.FetchAll(r.Context()); err != nil {
		res.Error = store.Err()
	}
	res.Items = store.Items()
	respond(w, http.StatusOK, res)
}

type sensorUpdateRequest struct {
	Value any `json:"value"`
}

func (h *Handler) apiSensorUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[sensorUpdateRequest](r)
	if err != nil {
		badRequest(w)
		return
	}

	app := appFromContext(r.Context())
	res, err := app.Sensors.Update(r.Context(), chi.URLParam(r, "id"), body.Value)
	if err != nil {
		type response struct {
			Message string `json:"message"`
		}
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		respondError(w, ErrUpstream, status, response{
			Message: app.Sensors.Err(),
		})
		return
	}
	respond(w, http.StatusOK, res)
}
