package handlers

import "errors"

var (
	ErrInvalidFields      = errors.New("invalid-fields")
	ErrInvalidCredentials = errors.New("invalid-credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrUpstream           = errors.New("upstream")
	ErrNotFound           = errors.New("not-found")
	ErrMethodNotAllowed   = errors.New("method-not-allowed")
)
