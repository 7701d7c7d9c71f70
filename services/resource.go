package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/juho05/log"

	"github.com/juho05/sensor-dash/api"
)

// Record is one server-supplied entry of a collection.
type Record map[string]any

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func (r Record) ID() string {
	return r.String("id")
}

// ResourceStore caches the collection behind one GET endpoint. Failures are recorded in Err and never
// change the cached items.
type ResourceStore[T any] struct {
	api      api.Client
	path     string
	errorMsg string

	mu    sync.RWMutex
	items []T
	err   string
}

func NewResourceStore[T any](apiClient api.Client, path, errorMsg string) *ResourceStore[T] {
	return &ResourceStore[T]{
		api:      apiClient,
		path:     path,
		errorMsg: errorMsg,
		items:    make([]T, 0),
	}
}

func NewSensorTypeStore(apiClient api.Client) *ResourceStore[Record] {
	return NewResourceStore[Record](apiClient, "/sensors-types", "Failed to fetch sensor types.")
}

func NewPackageTypeStore(apiClient api.Client) *ResourceStore[Record] {
	return NewResourceStore[Record](apiClient, "/package-types", "Failed to fetch package types.")
}

// FetchAll replaces the cached items with the current collection. The returned error is also recorded in Err.
func (s *ResourceStore[T]) FetchAll(ctx context.Context) error {
	s.setErr("")
	items := make([]T, 0)
	err := s.api.Do(ctx, http.MethodGet, s.path, nil, nil, &items)
	if err != nil {
		log.Errorf("fetch %s: %s", s.path, err)
		s.setErr(s.errorMsg)
		return fmt.Errorf("fetch %s: %w", s.path, Classify(err))
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *ResourceStore[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]T, len(s.items))
	copy(items, s.items)
	return items
}

// Err returns the message of the last failed operation or an empty string.
func (s *ResourceStore[T]) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *ResourceStore[T]) setErr(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = msg
}

type SensorUpdate struct {
	ID    any `json:"id" validate:"required"`
	Value any `json:"value"`
}

type SensorStore struct {
	*ResourceStore[Record]
}

func NewSensorStore(apiClient api.Client) *SensorStore {
	return &SensorStore{
		ResourceStore: NewResourceStore[Record](apiClient, "/sensors", "Failed to fetch sensors."),
	}
}

// Update sends value as the new value of sensor id and returns the pair confirmed by the server.
// The cached sensors are left as they are, call FetchAll to see the change.
func (s *SensorStore) Update(ctx context.Context, id string, value any) (*SensorUpdate, error) {
	s.setErr("")
	var res SensorUpdate
	err := s.api.Do(ctx, http.MethodPost, "/sensors/"+url.PathEscape(id), value, nil, &res)
	if err == nil {
		if vErr := validate.Struct(res); vErr != nil {
			err = fmt.Errorf("%w: %w", ErrInvalidResponse, vErr)
		}
	}
	if err != nil {
		log.Errorf("update sensor %s: %s", id, err)
		s.setErr(fmt.Sprintf("Failed to update sensor with ID %s.", id))
		return nil, fmt.Errorf("update sensor %s: %w", id, Classify(err))
	}
	return &res, nil
}
