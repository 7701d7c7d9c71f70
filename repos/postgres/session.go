package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/juho05/sensor-dash/repos"
)

type sessionRepository struct {
	pool *pgxpool.Pool
}

func (db *DB) NewSessionRepository() repos.SessionRepository {
	return &sessionRepository{
		pool: db.pool,
	}
}

func (s *sessionRepository) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

func (s *sessionRepository) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *sessionRepository) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *sessionRepository) All() (map[string][]byte, error) {
	return s.AllCtx(context.Background())
}

func (s *sessionRepository) DeleteCtx(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return repoErr("delete session: %w", err)
}

func (s *sessionRepository) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "SELECT data FROM sessions WHERE token = $1 AND expires > $2", token, time.Now().Unix()).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, repoErr("find session: %w", err)
	}
	return data, true, nil
}

func (s *sessionRepository) CommitCtx(ctx context.Context, token string, data []byte, expires time.Time) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO sessions (token, data, expires) VALUES ($1, $2, $3)
		ON CONFLICT (token) DO UPDATE SET data = EXCLUDED.data, expires = EXCLUDED.expires`, token, data, expires.Unix())
	return repoErr("commit session: %w", err)
}

func (s *sessionRepository) AllCtx(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.pool.Query(ctx, "SELECT token, data FROM sessions WHERE expires > $1", time.Now().Unix())
	if err != nil {
		return nil, repoErr("find sessions: %w", err)
	}
	defer rows.Close()

	sessions := make(map[string][]byte)
	for rows.Next() {
		var token string
		var data []byte
		err = rows.Scan(&token, &data)
		if err != nil {
			return nil, repoErr("find sessions: %w", err)
		}
		sessions[token] = data
	}
	if err := rows.Err(); err != nil {
		return nil, repoErr("find sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM sessions WHERE expires <= $1", time.Now().Unix())
	if err != nil {
		return 0, repoErr("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
