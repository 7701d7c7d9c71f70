package handlers

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/go-playground/form/v4"
	"github.com/juho05/log"

	"github.com/juho05/sensor-dash/services"
)

var formDecoder = form.NewDecoder()

func decodeBody[T any](r *http.Request) (T, error) {
	var obj T
	err := json.NewDecoder(r.Body).Decode(&obj)
	r.Body.Close()
	return obj, err
}

// decodeAndValidateForm decodes the form of r into dst.
// On validation failure it returns the translated messages of all invalid fields.
func decodeAndValidateForm(r *http.Request, dst any) (map[string]string, error) {
	err := r.ParseForm()
	if err != nil {
		return nil, err
	}
	err = formDecoder.Decode(dst, r.PostForm)
	if err != nil {
		return nil, err
	}
	err = services.Validate(dst)
	if err != nil {
		if fields := services.FieldErrors(language(r), err); fields != nil {
			return fields, nil
		}
		return nil, err
	}
	return nil, nil
}

func invalidFields(w http.ResponseWriter, fields map[string]string) {
	type response struct {
		Fields map[string]string `json:"fields"`
	}
	respondError(w, ErrInvalidFields, http.StatusUnprocessableEntity, response{
		Fields: fields,
	})
}

func language(r *http.Request) string {
	return services.GetLanguageFromAcceptLanguageHeader(r.Header.Get("Accept-Language"))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	clientError(w, http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	clientError(w, http.StatusMethodNotAllowed)
}

func badRequest(w http.ResponseWriter) {
	clientError(w, http.StatusBadRequest)
}

func clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func serverError(w http.ResponseWriter, err error) {
	log.Errorf("%s\n%s", err.Error(), debug.Stack())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	type response struct {
		Error bool `json:"error"`
		Body  any  `json:"body,omitempty"`
	}
	res := response{
		Error: false,
		Body:  data,
	}
	json.NewEncoder(w).Encode(res)
}

func respondError(w http.ResponseWriter, err error, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	type response struct {
		Error   bool   `json:"error"`
		ErrorID string `json:"errorID"`
		Body    any    `json:"body,omitempty"`
	}
	res := response{
		Error:   true,
		ErrorID: err.Error(),
		Body:    data,
	}
	json.NewEncoder(w).Encode(res)
}
