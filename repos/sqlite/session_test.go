package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/sensor-dash/repos/sqlite"
)

func TestSessionRepository(t *testing.T) {
	db, err := sqlite.Connect(filepath.Join(t.TempDir(), "test.sqlite"), true)
	require.NoError(t, err)
	defer db.Close()

	n, err := sqlite.Migrate(db.Raw())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "migrations must already be applied by Connect")

	repo := db.NewSessionRepository()
	ctx := context.Background()

	_, found, err := repo.FindCtx(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.CommitCtx(ctx, "a", []byte("first"), time.Now().Add(time.Hour)))
	require.NoError(t, repo.Commit("a", []byte("second"), time.Now().Add(time.Hour)))
	require.NoError(t, repo.Commit("b", []byte("other"), time.Now().Add(time.Hour)))
	require.NoError(t, repo.Commit("expired", []byte("old"), time.Now().Add(-time.Hour)))

	data, found, err := repo.Find("a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), data)

	_, found, err = repo.Find("expired")
	require.NoError(t, err)
	assert.False(t, found)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("second"), "b": []byte("other")}, all)

	removed, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	require.NoError(t, repo.Delete("a"))
	_, found, err = repo.Find("a")
	require.NoError(t, err)
	assert.False(t, found)
}
