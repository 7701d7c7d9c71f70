package handlers

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/juho05/log"
	"github.com/oklog/ulid/v2"

	dash "github.com/juho05/sensor-dash"
	"github.com/juho05/sensor-dash/services"
)

const (
	appIDKey = "appID"
	flashKey = "flash"
)

type appCtxKey struct{}

func init() {
	gob.Register(ulid.ULID{})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusResponseWriter) WriteHeader(code int) {
	if s.status >= 200 {
		return
	}
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusResponseWriter) Write(b []byte) (int, error) {
	if s.status < 200 {
		s.WriteHeader(http.StatusOK)
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusResponseWriter) ReadFrom(r io.Reader) (int64, error) {
	if s.status < 200 {
		s.WriteHeader(http.StatusOK)
	}
	return io.Copy(s.ResponseWriter, r)
}

func logRequest(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		rw := &statusResponseWriter{ResponseWriter: w}
		start := time.Now()
		defer func() {
			u := *r.URL
			u.RawQuery = ""
			u.RawFragment = ""
			log.Tracef("%s %s, status: %d %s, duration: %s", r.Method, u.String(), rw.status, http.StatusText(rw.status), time.Since(start).String())
		}()
		next.ServeHTTP(rw, r)
	}
	return http.HandlerFunc(fn)
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if e, ok := err.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(err)
				}
				w.Header().Set("Connection", "close")
				serverError(w, fmt.Errorf("%v", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// loadApp binds the app instance of the client to the request context. A new instance restores its session
// first; if navigate is set, a navigation requested by the restore is answered with a redirect.
func (h *Handler) loadApp(navigate bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := h.SessionManager.Get(r.Context(), appIDKey).(ulid.ULID)
			if !ok {
				id = ulid.Make()
				h.SessionManager.Put(r.Context(), appIDKey, id)
			}
			app := h.Apps.Get(id)

			nav := &redirector{}
			err := app.Resolve(r.Context(), nav)
			if err != nil {
				log.Errorf("resolve app %s: %s", id, err)
				clientError(w, http.StatusServiceUnavailable)
				return
			}
			if navigate && nav.target != "" && nav.target != r.URL.Path {
				http.Redirect(w, r, nav.target, http.StatusSeeOther)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), appCtxKey{}, app))
			next.ServeHTTP(w, r)
		})
	}
}

func appFromContext(ctx context.Context) *services.App {
	app, ok := ctx.Value(appCtxKey{}).(*services.App)
	if !ok {
		panic("app middleware required")
	}
	return app
}

func (h *Handler) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app := appFromContext(r.Context())
		decision := h.Guard.Evaluate(app.Session.Session(), r.URL.Path)
		switch decision.Action {
		case services.Redirect:
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
		case services.Defer:
			restoring(w)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// restoring answers a navigation that has to wait for the restore running for another request.
func restoring(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	http.Error(w, services.ErrRestoring.Error(), http.StatusServiceUnavailable)
}

// guardAPI rejects requests without a session instead of redirecting them.
func (h *Handler) guardAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app := appFromContext(r.Context())
		sess := app.Session.Session()
		switch {
		case sess.State == services.Restoring:
			w.Header().Set("Retry-After", "1")
			respondError(w, services.ErrRestoring, http.StatusServiceUnavailable, nil)
		case !sess.IsLogged:
			respondError(w, ErrUnauthorized, http.StatusUnauthorized, nil)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func staticCache(maxAge time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int64(maxAge.Seconds())))
			w.Header().Set("Last-Modified", dash.StartTime.UTC().Format(http.TimeFormat))
			if ifModSince, err := time.Parse(http.TimeFormat, r.Header.Get("If-Modified-Since")); err == nil && !dash.StartTime.Truncate(time.Second).After(ifModSince) {
				w.WriteHeader(http.StatusNotModified)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self';style-src 'self';frame-src 'self';script-src 'self'; connect-src 'self';")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
		w.Header().Set("Permissions-Policy", "geolocation=(), camera=(), microphone=(), interest-cohort=()")
		next.ServeHTTP(w, r)
	})
}
