package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/alexedwards/scs/v2"
)

const (
	snapshotTokenKey = "authToken"
	snapshotUserKey  = "user"
)

type cookieSnapshotStorage struct {
	sessionManager *scs.SessionManager
}

// NewCookieSnapshotStorage stores the snapshot in the scs session loaded into the request context.
// Whether it outlives the browser session depends on sessionManager.Cookie.Persist.
func NewCookieSnapshotStorage(sessionManager *scs.SessionManager) SnapshotStorage {
	return &cookieSnapshotStorage{
		sessionManager: sessionManager,
	}
}

func (c *cookieSnapshotStorage) Load(ctx context.Context) (*Snapshot, error) {
	token := c.sessionManager.GetString(ctx, snapshotTokenKey)
	userJSON := c.sessionManager.GetString(ctx, snapshotUserKey)
	if token == "" || userJSON == "" {
		return nil, nil
	}
	var user User
	err := json.Unmarshal([]byte(userJSON), &user)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: decode user: %w", err)
	}
	return &Snapshot{
		Token: token,
		User:  user,
	}, nil
}

func (c *cookieSnapshotStorage) Save(ctx context.Context, snapshot Snapshot) error {
	userJSON, err := json.Marshal(snapshot.User)
	if err != nil {
		return fmt.Errorf("save snapshot: encode user: %w", err)
	}
	// both keys end up in the same session record, which scs commits in one write
	c.sessionManager.Put(ctx, snapshotTokenKey, snapshot.Token)
	c.sessionManager.Put(ctx, snapshotUserKey, string(userJSON))
	return nil
}

func (c *cookieSnapshotStorage) Delete(ctx context.Context) error {
	c.sessionManager.Remove(ctx, snapshotTokenKey)
	c.sessionManager.Remove(ctx, snapshotUserKey)
	return nil
}

type memorySnapshotStorage struct {
	mu       sync.Mutex
	snapshot *Snapshot
}

// NewMemorySnapshotStorage keeps a single snapshot in memory, independent of ctx.
func NewMemorySnapshotStorage() SnapshotStorage {
	return &memorySnapshotStorage{}
}

func (m *memorySnapshotStorage) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return nil, nil
	}
	s := *m.snapshot
	return &s, nil
}

func (m *memorySnapshotStorage) Save(ctx context.Context, snapshot Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = &snapshot
	return nil
}

func (m *memorySnapshotStorage) Delete(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = nil
	return nil
}
