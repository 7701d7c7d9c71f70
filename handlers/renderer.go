package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/juho05/sensor-dash/services"
)

type templateData struct {
	Lang        string
	User        *services.User
	Form        any
	Data        any
	FieldErrors map[string]string
	Errors      []string
	Messages    []string

	LoginPath     string
	DashboardPath string
}

func (h *Handler) newTemplateData(r *http.Request) templateData {
	data := templateData{
		Lang:          language(r),
		FieldErrors:   make(map[string]string),
		LoginPath:     h.Guard.LoginPath,
		DashboardPath: h.Guard.DashboardPath,
	}
	if app, ok := r.Context().Value(appCtxKey{}).(*services.App); ok {
		data.User = app.Session.Session().User
	}
	if msg := h.SessionManager.PopString(r.Context(), flashKey); msg != "" {
		data.Messages = append(data.Messages, msg)
	}
	return data
}

func (h *Handler) newTemplateDataWithData(r *http.Request, data any) templateData {
	tmplData := h.newTemplateData(r)
	tmplData.Data = data
	return tmplData
}

type Renderer interface {
	render(w http.ResponseWriter, status int, page string, data templateData)
}

type renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(htmlFS fs.FS) (Renderer, error) {
	renderer := &renderer{
		templates: make(map[string]*template.Template),
	}
	err := renderer.loadTemplates(htmlFS)
	if err != nil {
		return nil, err
	}
	return renderer, nil
}

func (r *renderer) render(w http.ResponseWriter, status int, page string, data templateData) {
	t, ok := r.templates[page]
	if !ok {
		serverError(w, fmt.Errorf("template %s does not exist", page))
		return
	}

	buf := &bytes.Buffer{}

	err := t.ExecuteTemplate(buf, "base", data)
	if err != nil {
		serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

var templateFuncs = template.FuncMap{
	"t": func(lang, key string) string {
		v, err := services.Translate(lang, key)
		if err != nil {
			return key
		}
		return v
	},
	"field": func(rec services.Record, key string) string {
		return rec.String(key)
	},
}

func (r *renderer) loadTemplates(htmlFS fs.FS) error {
	pages, err := fs.Glob(htmlFS, "pages/*.tmpl.html")
	if err != nil {
		return fmt.Errorf("find html pages: %w", err)
	}

	for _, page := range pages {
		name := strings.TrimSuffix(filepath.Base(page), ".tmpl.html")

		t, err := template.New(name).Funcs(templateFuncs).ParseFS(htmlFS, "base.tmpl.html")
		if err != nil {
			return fmt.Errorf("parse base.tmpl.html: %w", err)
		}

		t, err = t.ParseFS(htmlFS, "partials/*.tmpl.html")
		if err != nil {
			return fmt.Errorf("parse template partials: %w", err)
		}

		t, err = t.ParseFS(htmlFS, page)
		if err != nil {
			return fmt.Errorf("parse %s: %w", page, err)
		}

		r.templates[name] = t
	}

	return nil
}
