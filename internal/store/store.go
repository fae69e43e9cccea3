// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps the client's local state in SQLite: the logged-in
// session and the history of search runs with the candidates they
// returned. Past candidates are indexed with FTS5 so they can be found
// again without a backend round trip.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/yoop/internal/session"
	"github.com/pdiddy/yoop/pkg/types"
)

const (
	dbFile = "yoop.db"

	// timeLayout has fixed width so stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNoSession is returned by LoadSession when nobody is logged in.
var ErrNoSession = errors.New("no saved session")

// Store is the local SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates dataDir/yoop.db and its schema.
func Open(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.DataDir
	if dir == "" {
		dir = types.DefaultDataDir
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			user_id TEXT NOT NULL,
			login TEXT,
			token TEXT NOT NULL,
			expires_at TEXT,
			saved_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS searches (
			id TEXT PRIMARY KEY,
			actor_id TEXT NOT NULL,
			query TEXT NOT NULL,
			strategy TEXT NOT NULL,
			request_id TEXT,
			phase TEXT NOT NULL,
			error TEXT,
			attempts INTEGER NOT NULL DEFAULT 0,
			result_count INTEGER NOT NULL DEFAULT 0,
			started_at TEXT NOT NULL,
			finished_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_started ON searches(started_at)`,
		`CREATE TABLE IF NOT EXISTS candidates (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES searches(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			candidate_id TEXT NOT NULL,
			name TEXT,
			city TEXT,
			bio TEXT,
			tags TEXT,
			payload TEXT NOT NULL,
			UNIQUE (run_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_run ON candidates(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_candidate ON candidates(candidate_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='candidates_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE candidates_fts USING fts5(name, city, bio, tags, content=candidates, content_rowid=rowid)`,
		`CREATE TRIGGER candidates_ai AFTER INSERT ON candidates BEGIN
			INSERT INTO candidates_fts(rowid, name, city, bio, tags)
			VALUES (new.rowid, new.name, new.city, new.bio, new.tags);
		END`,
		`CREATE TRIGGER candidates_ad AFTER DELETE ON candidates BEGIN
			INSERT INTO candidates_fts(candidates_fts, rowid, name, city, bio, tags)
			VALUES ('delete', old.rowid, old.name, old.city, old.bio, old.tags);
		END`,
		`CREATE TRIGGER candidates_au AFTER UPDATE ON candidates BEGIN
			INSERT INTO candidates_fts(candidates_fts, rowid, name, city, bio, tags)
			VALUES ('delete', old.rowid, old.name, old.city, old.bio, old.tags);
			INSERT INTO candidates_fts(rowid, name, city, bio, tags)
			VALUES (new.rowid, new.name, new.city, new.bio, new.tags);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// SaveSession replaces the stored session.
func (s *Store) SaveSession(ctx context.Context, sess session.Session) error {
	if sess.UserID == "" || sess.Token == "" {
		return fmt.Errorf("refusing to save a session without user id or token")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, user_id, login, token, expires_at, saved_at)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id, login=excluded.login, token=excluded.token,
			expires_at=excluded.expires_at, saved_at=excluded.saved_at`,
		sess.UserID, sess.Login, sess.Token, formatTime(sess.ExpiresAt), formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// LoadSession returns the stored session or ErrNoSession. An expired
// session is returned as stored; callers check AuthenticatedAt.
func (s *Store) LoadSession(ctx context.Context) (session.Session, error) {
	var (
		sess    session.Session
		login   sql.NullString
		expires sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, login, token, expires_at FROM session WHERE id = 1`,
	).Scan(&sess.UserID, &login, &sess.Token, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Session{}, ErrNoSession
	}
	if err != nil {
		return session.Session{}, fmt.Errorf("loading session: %w", err)
	}
	sess.Login = login.String
	sess.ExpiresAt = parseTime(expires.String)
	return sess, nil
}

// ClearSession forgets the stored session. It is not an error when none
// exists.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
