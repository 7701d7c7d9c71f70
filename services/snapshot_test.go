package services_test

import (
	"context"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/sensor-dash/services"
)

func TestCookieSnapshotStorage(t *testing.T) {
	sessionManager := scs.New()
	sessionManager.Store = memstore.New()
	ctx, err := sessionManager.Load(context.Background(), "")
	require.NoError(t, err)

	storage := services.NewCookieSnapshotStorage(sessionManager)

	snapshot, err := storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	user := services.User{ID: "1", Role: "admin", Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, storage.Save(ctx, services.Snapshot{Token: "abc123", User: user}))
	snapshot, err = storage.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "abc123", snapshot.Token)
	assert.Equal(t, user, snapshot.User)

	require.NoError(t, storage.Delete(ctx))
	snapshot, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestCookieSnapshotStorageIncompleteSnapshot(t *testing.T) {
	sessionManager := scs.New()
	sessionManager.Store = memstore.New()
	ctx, err := sessionManager.Load(context.Background(), "")
	require.NoError(t, err)

	sessionManager.Put(ctx, "authToken", "abc123")

	snapshot, err := services.NewCookieSnapshotStorage(sessionManager).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestMemorySnapshotStorage(t *testing.T) {
	ctx := context.Background()
	storage := services.NewMemorySnapshotStorage()

	require.NoError(t, storage.Save(ctx, services.Snapshot{Token: "abc123", User: services.User{Name: "Ada"}}))
	snapshot, err := storage.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "Ada", snapshot.User.Name)

	require.NoError(t, storage.Delete(ctx))
	snapshot, err = storage.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}
