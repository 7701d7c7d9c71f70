package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport = errors.New("transport")
	ErrDecode    = errors.New("decode")
)

// StatusError is returned for every response with a non-2xx status code.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (s *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", s.Method, s.Path, s.Status, http.StatusText(s.Status))
}

// IsUnauthorized reports whether err is a StatusError with status 401 or 403.
func IsUnauthorized(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.Status == http.StatusUnauthorized || statusErr.Status == http.StatusForbidden
}
