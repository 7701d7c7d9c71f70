package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/juho05/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/exp/maps"

	"github.com/juho05/sensor-dash/api"
)

// App holds the stores of one client.
type App struct {
	ID           ulid.ULID
	Session      SessionStore
	Sensors      *SensorStore
	SensorTypes  *ResourceStore[Record]
	PackageTypes *ResourceStore[Record]

	resolved chan struct{}

	mu       sync.Mutex
	started  bool
	lastUsed time.Time
}

// Resolve restores the session of a newly created app. Only the first caller runs the restore and receives
// its navigation; every other caller waits until the restore has finished or ctx is done.
// A restore that failed for any reason other than rejected credentials is attempted again by the next caller.
func (a *App) Resolve(ctx context.Context, nav Navigator) error {
	a.mu.Lock()
	resolved := a.resolved
	first := !a.started
	a.started = true
	a.mu.Unlock()
	if first {
		err := a.Session.Restore(ctx, nav)
		if err != nil && !errors.Is(err, ErrInvalidCredentials) {
			a.mu.Lock()
			a.started = false
			a.resolved = make(chan struct{})
			a.mu.Unlock()
		}
		close(resolved)
		return nil
	}
	select {
	case <-resolved:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) touch(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastUsed = now
}

func (a *App) idleSince() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastUsed
}

type AppRegistry struct {
	api     api.Client
	storage SnapshotStorage
	paths   SessionPaths
	now     func() time.Time

	mu   sync.Mutex
	apps map[ulid.ULID]*App
}

func NewAppRegistry(apiClient api.Client, storage SnapshotStorage, paths SessionPaths) *AppRegistry {
	return &AppRegistry{
		api:     apiClient,
		storage: storage,
		paths:   paths,
		now:     time.Now,
		apps:    make(map[ulid.ULID]*App),
	}
}

// Get returns the app with id and creates it if it does not exist yet.
func (r *AppRegistry) Get(id ulid.ULID) *App {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		log.Tracef("Creating app instance %s", id)
		app = &App{
			ID:           id,
			Session:      NewSessionStore(r.api, r.storage, r.paths),
			Sensors:      NewSensorStore(r.api),
			SensorTypes:  NewSensorTypeStore(r.api),
			PackageTypes: NewPackageTypeStore(r.api),
			resolved:     make(chan struct{}),
		}
		r.apps[id] = app
	}
	app.touch(r.now())
	return app
}

func (r *AppRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// Cleanup removes all apps that have not been used for maxIdle and returns their number.
func (r *AppRegistry) Cleanup(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	deadline := r.now().Add(-maxIdle)
	removed := 0
	for _, id := range maps.Keys(r.apps) {
		if r.apps[id].idleSince().Before(deadline) {
			delete(r.apps, id)
			removed++
		}
	}
	return removed
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (r *AppRegistry) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Cleanup(maxIdle); n > 0 {
				log.Tracef("Removed %d idle app instances", n)
			}
		}
	}
}
