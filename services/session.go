package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/juho05/log"

	"github.com/juho05/sensor-dash/api"
)

type User struct {
	ID    string `json:"id,omitempty" validate:"required_without_all=Role Name Email"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session is a copy of the session of one client.
// IsLogged is true iff both Token and User are set.
type Session struct {
	State    SessionState
	Token    string
	User     *User
	IsLogged bool
}

type SessionState int

const (
	Anonymous SessionState = iota
	Restoring
	Authenticated
)

func (s SessionState) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Snapshot is the persisted (token, user) pair. It is always written and deleted as a whole.
type Snapshot struct {
	Token string
	User  User
}

// SnapshotStorage persists the snapshot of the client bound to ctx.
type SnapshotStorage interface {
	// Load returns nil if no complete snapshot exists.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
	Delete(ctx context.Context) error
}

type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) {
	f(path)
}

type SessionPaths struct {
	Login     string
	Dashboard string
}

type SessionStore interface {
	Login(ctx context.Context, nav Navigator, email, password string) error
	Commit(ctx context.Context, user User, token string)
	Logout(ctx context.Context, nav Navigator)
	// Restore logs and swallows all failures. The returned error only tells the caller why the session could
	// not be restored, so that it can decide whether another attempt is worthwhile.
	Restore(ctx context.Context, nav Navigator) error

	Session() Session
	State() SessionState
	UserRole() string
	UserName() string
	UserEmail() string
}

type sessionStore struct {
	api     api.Client
	storage SnapshotStorage
	paths   SessionPaths
	now     func() time.Time

	mu    sync.RWMutex
	state SessionState
	token string
	user  *User
}

func NewSessionStore(apiClient api.Client, storage SnapshotStorage, paths SessionPaths) SessionStore {
	return &sessionStore{
		api:     apiClient,
		storage: storage,
		paths:   paths,
		now:     time.Now,
		state:   Anonymous,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *sessionStore) Login(ctx context.Context, nav Navigator, email, password string) error {
	var res json.RawMessage
	err := s.api.Do(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, nil, &res)
	if err != nil {
		log.Errorf("login %s: %s", email, err)
		return fmt.Errorf("login: %w: %w", ErrInvalidCredentials, Classify(err))
	}

	token, err := decodeToken(res)
	if err != nil {
		log.Errorf("login %s: %s", email, err)
		return fmt.Errorf("login: %w: %w", ErrInvalidCredentials, err)
	}

	user, err := s.fetchUser(ctx, token)
	if err != nil {
		log.Errorf("login %s: %s", email, err)
		return fmt.Errorf("login: %w: %w", ErrInvalidCredentials, err)
	}

	s.Commit(ctx, *user, token)
	nav.Navigate(s.paths.Dashboard)
	return nil
}

func (s *sessionStore) Commit(ctx context.Context, user User, token string) {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.state = Authenticated
	s.mu.Unlock()

	err := s.storage.Save(ctx, Snapshot{
		Token: token,
		User:  user,
	})
	if err != nil {
		log.Errorf("commit session: save snapshot: %s", err)
	}
}

func (s *sessionStore) Logout(ctx context.Context, nav Navigator) {
	s.clear()
	err := s.storage.Delete(ctx)
	if err != nil {
		log.Errorf("logout: delete snapshot: %s", err)
	}
	nav.Navigate(s.paths.Login)
}

func (s *sessionStore) Restore(ctx context.Context, nav Navigator) error {
	snapshot, err := s.storage.Load(ctx)
	if err != nil {
		log.Errorf("restore session: load snapshot: %s", err)
		return fmt.Errorf("restore session: load snapshot: %w", err)
	}
	if snapshot == nil {
		return nil
	}

	s.mu.Lock()
	if s.state != Anonymous {
		s.mu.Unlock()
		return nil
	}
	s.state = Restoring
	s.mu.Unlock()

	var user *User
	if tokenExpired(snapshot.Token, s.now()) {
		err = Classify(ErrTokenExpired)
	} else {
		user, err = s.fetchUser(ctx, snapshot.Token)
	}
	if err != nil {
		s.mu.Lock()
		if s.state == Restoring {
			s.state = Anonymous
		}
		s.mu.Unlock()
		log.Errorf("restore session: %s", err)
		if errors.Is(err, ErrInvalidCredentials) {
			if err := s.storage.Delete(ctx); err != nil {
				log.Errorf("restore session: delete snapshot: %s", err)
			}
		}
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.RLock()
	superseded := s.state != Restoring
	s.mu.RUnlock()
	if superseded {
		log.Trace("restore session: session changed while restoring, discarding result")
		return nil
	}

	s.Commit(ctx, *user, snapshot.Token)
	nav.Navigate(s.paths.Dashboard)
	return nil
}

func (s *sessionStore) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := Session{
		State: s.state,
		Token: s.token,
	}
	if s.user != nil {
		u := *s.user
		sess.User = &u
	}
	sess.IsLogged = s.state == Authenticated && sess.Token != "" && sess.User != nil
	return sess
}

func (s *sessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *sessionStore) UserRole() string {
	return s.userField(func(u *User) string { return u.Role })
}

func (s *sessionStore) UserName() string {
	return s.userField(func(u *User) string { return u.Name })
}

func (s *sessionStore) UserEmail() string {
	return s.userField(func(u *User) string { return u.Email })
}

func (s *sessionStore) userField(get func(u *User) string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return get(s.user)
}

func (s *sessionStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.state = Anonymous
}

func (s *sessionStore) fetchUser(ctx context.Context, token string) (*User, error) {
	var user User
	err := s.api.Do(ctx, http.MethodGet, "/auth/user", nil, api.BearerHeader(token), &user)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", Classify(err))
	}
	if err := validate.Struct(user); err != nil {
		return nil, fmt.Errorf("fetch user: %w: empty profile", ErrInvalidResponse)
	}
	return &user, nil
}

// decodeToken accepts either a bare JSON string or an object carrying the token.
func decodeToken(raw json.RawMessage) (string, error) {
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		var obj struct {
			Token            string `json:"token"`
			AccessToken      string `json:"accessToken"`
			AccessTokenSnake string `json:"access_token"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return "", fmt.Errorf("decode token: %w: %w", ErrInvalidResponse, err)
		}
		token = obj.Token
		if token == "" {
			token = obj.AccessToken
		}
		if token == "" {
			token = obj.AccessTokenSnake
		}
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("decode token: %w: token not found in the response", ErrInvalidResponse)
	}
	return token, nil
}

// tokenExpired reports whether token is a JWT with an exp claim in the past. Opaque tokens never expire here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
