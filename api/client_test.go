package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/sensor-dash/api"
)

func TestClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/monitor/api/echo":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(body)
		case "/monitor/api/empty":
			w.WriteHeader(http.StatusOK)
		case "/monitor/api/broken":
			w.Write([]byte("{not json"))
		case "/monitor/api/denied":
			http.Error(w, "nope", http.StatusUnauthorized)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := api.NewClient(srv.URL+"/monitor/api/", srv.Client())

	t.Run("round trip", func(t *testing.T) {
		var out map[string]string
		err := c.Do(context.Background(), http.MethodPost, "/echo", map[string]string{"a": "b"}, api.BearerHeader("abc"), &out)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"a": "b"}, out)
	})

	t.Run("empty body leaves out untouched", func(t *testing.T) {
		out := "unchanged"
		err := c.Do(context.Background(), http.MethodGet, "/empty", nil, nil, &out)
		require.NoError(t, err)
		assert.Equal(t, "unchanged", out)
	})

	t.Run("malformed json", func(t *testing.T) {
		var out map[string]any
		err := c.Do(context.Background(), http.MethodGet, "/broken", nil, nil, &out)
		require.ErrorIs(t, err, api.ErrDecode)
	})

	t.Run("status error", func(t *testing.T) {
		err := c.Do(context.Background(), http.MethodGet, "/denied", nil, nil, nil)
		var statusErr *api.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
		assert.True(t, api.IsUnauthorized(err))

		err = c.Do(context.Background(), http.MethodGet, "/missing", nil, nil, nil)
		require.Error(t, err)
		assert.False(t, api.IsUnauthorized(err))
	})

	t.Run("transport error", func(t *testing.T) {
		dead := api.NewClient("http://127.0.0.1:1", nil)
		err := dead.Do(context.Background(), http.MethodGet, "/sensors", nil, nil, nil)
		require.ErrorIs(t, err, api.ErrTransport)
	})
}
