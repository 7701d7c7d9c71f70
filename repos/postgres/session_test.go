package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juho05/sensor-dash/repos/postgres"
)

func TestSessionRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	db, err := postgres.Connect(dsn, true)
	require.NoError(t, err)
	defer db.Close()

	repo := db.NewSessionRepository()
	ctx := context.Background()
	token := "test-" + time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { repo.Delete(token) })

	require.NoError(t, repo.CommitCtx(ctx, token, []byte("first"), time.Now().Add(time.Hour)))
	require.NoError(t, repo.CommitCtx(ctx, token, []byte("second"), time.Now().Add(time.Hour)))

	data, found, err := repo.FindCtx(ctx, token)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("second"), data)

	all, err := repo.AllCtx(ctx)
	require.NoError(t, err)
	assert.Contains(t, all, token)

	require.NoError(t, repo.DeleteCtx(ctx, token))
	_, found, err = repo.FindCtx(ctx, token)
	require.NoError(t, err)
	assert.False(t, found)
}
