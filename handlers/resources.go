package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/juho05/sensor-dash/services"
)

type collectionData struct {
	Title string
	Items []services.Record
	Error string
}

type dashboardData struct {
	Sensors      int
	SensorTypes  int
	PackageTypes int
	Errors       []string
}

type sensorForm struct {
	Value string `form:"value"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())

	stores := []*services.ResourceStore[services.Record]{app.Sensors.ResourceStore, app.SensorTypes, app.PackageTypes}
	errs := make([]error, len(stores))
	var wg sync.WaitGroup
	for i, s := range stores {
		wg.Add(1)
		go func(i int, s *services.ResourceStore[services.Record]) {
			defer wg.Done()
			errs[i] = s.FetchAll(r.Context())
		}(i, s)
	}
	wg.Wait()

	data := dashboardData{
		Sensors:      len(app.Sensors.Items()),
		SensorTypes:  len(app.SensorTypes.Items()),
		PackageTypes: len(app.PackageTypes.Items()),
	}
	for i, err := range errs {
		if err != nil {
			data.Errors = append(data.Errors, stores[i].Err())
		}
	}
	h.Renderer.render(w, http.StatusOK, "dashboard", h.newTemplateDataWithData(r, data))
}

func (h *Handler) sensorList(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	h.renderCollection(w, r, "sensors", app.Sensors.ResourceStore)
}

func (h *Handler) sensorTypeList(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	h.renderCollection(w, r, "sensorTypes", app.SensorTypes)
}

func (h *Handler) packageTypeList(w http.ResponseWriter, r *http.Request) {
	app := appFromContext(r.Context())
	h.renderCollection(w, r, "packageTypes", app.PackageTypes)
}

// renderCollection refreshes store and renders its items. A failed refresh shows the previous items and the
// message of the store.
func (h *Handler) renderCollection(w http.ResponseWriter, r *http.Request, page string, store *services.ResourceStore[services.Record]) {
	var msg string
	if err := store.FetchAll(r.Context()); err != nil {
		msg = store.Err()
	}
	data := h.newTemplateDataWithData(r, collectionData{
		Title: page,
		Items: store.Items(),
		Error: msg,
	})
	h.Renderer.render(w, http.StatusOK, page, data)
}

func (h *Handler) sensorUpdate(w http.ResponseWriter, r *http.Request) {
	var body sensorForm
	fields, err := decodeAndValidateForm(r, &body)
	if err != nil || fields != nil {
		badRequest(w)
		return
	}

	app := appFromContext(r.Context())
	id := chi.URLParam(r, "id")
	_, err = app.Sensors.Update(r.Context(), id, parseValue(body.Value))
	if err != nil {
		msg := app.Sensors.Err()
		data := h.newTemplateDataWithData(r, collectionData{
			Title: "sensors",
			Items: app.Sensors.Items(),
			Error: msg,
		})
		h.Renderer.render(w, http.StatusBadGateway, "sensors", data)
		return
	}
	h.SessionManager.Put(r.Context(), flashKey, services.MustTranslate(language(r), "sensorUpdated"))
	http.Redirect(w, r, "/sensors", http.StatusSeeOther)
}

// parseValue interprets a submitted value as a JSON literal and falls back to the raw string.
func parseValue(raw string) any {
	raw = strings.TrimSpace(raw)
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
