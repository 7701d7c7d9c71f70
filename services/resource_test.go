package services_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/sensor-dash/api"
	"github.com/juho05/sensor-dash/services"
)

func TestResourceStore_FetchAll(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/sensors":
			w.Write([]byte(`[{"id":1,"name":"temp","value":21.5},{"id":2,"name":"humidity","value":40}]`))
		case "/sensors-types":
			w.Write([]byte(`[{"id":"t1","name":"thermometer"}]`))
		case "/package-types":
			w.Write([]byte(`[{"id":"p1","name":"box"},{"id":"p2","name":"pallet"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	client := api.NewClient(srv.URL, srv.Client())

	sensors := services.NewSensorStore(client)
	sensorTypes := services.NewSensorTypeStore(client)
	packageTypes := services.NewPackageTypeStore(client)

	assert.Empty(t, sensors.Items())
	assert.Empty(t, sensors.Err())

	require.NoError(t, sensors.FetchAll(context.Background()))
	require.NoError(t, sensorTypes.FetchAll(context.Background()))
	require.NoError(t, packageTypes.FetchAll(context.Background()))

	items := sensors.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID())
	assert.Equal(t, "temp", items[0].String("name"))
	assert.Equal(t, "21.5", items[0].String("value"))
	assert.Equal(t, "", items[0].String("missing"))
	assert.Len(t, sensorTypes.Items(), 1)
	assert.Len(t, packageTypes.Items(), 2)

	fail.Store(true)
	for store, msg := range map[interface {
		FetchAll(context.Context) error
		Err() string
	}]string{
		sensors:      "Failed to fetch sensors.",
		sensorTypes:  "Failed to fetch sensor types.",
		packageTypes: "Failed to fetch package types.",
	} {
		err := store.FetchAll(context.Background())
		require.ErrorIs(t, err, services.ErrTransport)
		assert.Equal(t, msg, store.Err())
	}
	assert.Equal(t, items, sensors.Items())
	assert.Len(t, packageTypes.Items(), 2)

	fail.Store(false)
	require.NoError(t, sensors.FetchAll(context.Background()))
	assert.Empty(t, sensors.Err())
}

func TestResourceStore_ReplacesCollection(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`[{"id":"a"},{"id":"b"}]`))
			return
		}
		w.Write([]byte(`[{"id":"c"}]`))
	}))
	defer srv.Close()

	store := services.NewPackageTypeStore(api.NewClient(srv.URL, srv.Client()))
	require.NoError(t, store.FetchAll(context.Background()))
	require.NoError(t, store.FetchAll(context.Background()))
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID())
}

func TestSensorStore_Update(t *testing.T) {
	var sensorCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/sensors":
			sensorCalls.Add(1)
			w.Write([]byte(`[{"id":"s1","value":1}]`))
		case r.Method == http.MethodPost && r.URL.Path == "/sensors/s1":
			body, _ := io.ReadAll(r.Body)
			var value any
			require.NoError(t, json.Unmarshal(body, &value))
			json.NewEncoder(w).Encode(map[string]any{"id": "s1", "value": value, "extra": true})
		case r.Method == http.MethodPost && r.URL.Path == "/sensors/empty":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := services.NewSensorStore(api.NewClient(srv.URL, srv.Client()))
	require.NoError(t, store.FetchAll(context.Background()))

	res, err := store.Update(context.Background(), "s1", 42)
	require.NoError(t, err)
	assert.Equal(t, "s1", res.ID)
	assert.EqualValues(t, 42, res.Value)
	assert.Empty(t, store.Err())
	assert.Equal(t, "1", store.Items()[0].String("value"))
	assert.EqualValues(t, 1, sensorCalls.Load())

	res, err = store.Update(context.Background(), "missing", 1)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, "Failed to update sensor with ID missing.", store.Err())

	_, err = store.Update(context.Background(), "empty", 1)
	require.ErrorIs(t, err, services.ErrInvalidResponse)
	assert.Equal(t, "Failed to update sensor with ID empty.", store.Err())
	assert.Len(t, store.Items(), 1)
}
