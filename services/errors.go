package services

import (
	"errors"
	"fmt"

	"github.com/juho05/sensor-dash/api"
)

var (
	ErrInvalidCredentials = errors.New("invalid-credentials")
	ErrTokenExpired       = errors.New("token-expired")
	ErrTransport          = errors.New("transport")
	ErrInvalidResponse    = errors.New("invalid-response")
	ErrRestoring          = errors.New("restoring")
)

// Classify wraps an error returned by the API client with the matching service error:
// ErrInvalidCredentials for rejected tokens or credentials, ErrInvalidResponse for empty or malformed
// responses and ErrTransport for everything else.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTransport), errors.Is(err, ErrInvalidResponse):
		return err
	case errors.Is(err, ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case api.IsUnauthorized(err):
		return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	case errors.Is(err, api.ErrDecode):
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}
