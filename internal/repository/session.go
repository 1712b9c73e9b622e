package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/outlay-app/outlay/internal/model"
)

// ErrNoSession is returned by Load when no session record is stored.
var ErrNoSession = errors.New("no stored session")

// sessionKey is the single well-known key the current session lives
// under. Absence of the record means "logged out".
const sessionKey = "current_user"

//go:generate mockery --name=Sessions

// Sessions persists the one "current session" user record. At most one
// record exists at a time; Save overwrites it (last-write-wins).
type Sessions interface {
	Load(ctx context.Context) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	Clear(ctx context.Context) error
}

// SQLite keeps the session record in a local sqlite database, the
// durable equivalent of a platform key-value store.
type SQLite struct {
	conn *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repository.Sessions, open sqlite error: %v", err)
	}
	if err = conn.Ping(); err != nil {
		return nil, fmt.Errorf("repository.Sessions, ping sqlite error: %v", err)
	}

	query := `CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`
	if _, err = conn.Exec(query); err != nil {
		return nil, fmt.Errorf("repository.Sessions, create table error: %v", err)
	}
	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Load(ctx context.Context) (*model.User, error) {
	var raw string
	query := `SELECT value FROM kv WHERE key = ?`
	err := s.conn.QueryRowContext(ctx, query, sessionKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("repository.Sessions, load error: %v", err)
	}

	var user model.User
	if err = json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("repository.Sessions, decode stored session error: %v", err)
	}
	return &user, nil
}

func (s *SQLite) Save(ctx context.Context, user *model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("repository.Sessions, encode session error: %v", err)
	}

	query := `INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err = s.conn.ExecContext(ctx, query, sessionKey, string(raw)); err != nil {
		return fmt.Errorf("repository.Sessions, save error: %v", err)
	}
	return nil
}

// Clear removes the stored record. Clearing an absent record is a no-op.
func (s *SQLite) Clear(ctx context.Context) error {
	query := `DELETE FROM kv WHERE key = ?`
	if _, err := s.conn.ExecContext(ctx, query, sessionKey); err != nil {
		return fmt.Errorf("repository.Sessions, clear error: %v", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

// SessionsLocalStorage keeps the record in process memory. Used in
// tests and for runs that should leave nothing on disk.
type SessionsLocalStorage struct {
	mu   sync.RWMutex
	user *model.User
}

func NewSessionsLocalStorage() *SessionsLocalStorage {
	return &SessionsLocalStorage{}
}

func (l *SessionsLocalStorage) Load(_ context.Context) (*model.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.user == nil {
		return nil, ErrNoSession
	}
	u := *l.user
	return &u, nil
}

func (l *SessionsLocalStorage) Save(_ context.Context, user *model.User) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := *user
	l.user = &u
	return nil
}

func (l *SessionsLocalStorage) Clear(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.user = nil
	return nil
}
