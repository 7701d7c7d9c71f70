package repos

import (
	"context"

	"github.com/alexedwards/scs/v2"
)

type SessionModel struct {
	Token   string `db:"token"`
	Data    []byte `db:"data"`
	Expires int64  `db:"expires"`
}

// SessionRepository persists the cookie sessions managed by scs, including the session snapshots.
type SessionRepository interface {
	scs.Store
	scs.CtxStore
	scs.IterableStore
	scs.IterableCtxStore

	// DeleteExpired removes all expired sessions and returns their number.
	DeleteExpired(ctx context.Context) (int64, error)
}
