package tape

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/tally/internal/engine"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Current schema (sessions + entries)
const currentSchemaVersion = 1

// Store provides durable storage for recorded calculator sessions.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// SessionInfo summarizes one recorded session for listings.
type SessionInfo struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"created_at"`
	Source     string `json:"source"`
	EntryCount int    `json:"entry_count"`
}

// Open creates or opens a tape database at the given path.
// Use ":memory:" for an in-memory tape (harness, tests).
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time; a single connection also
	// keeps an in-memory database alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and stamps user_version.
// Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// CreateSession inserts a session record. Idempotent via ON CONFLICT DO
// NOTHING, so resuming a known session is safe.
func (s *Store) CreateSession(ctx context.Context, id, source string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, source)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, source)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// WriteEntry inserts a journal entry.
// Uses ON CONFLICT DO NOTHING for idempotency - replaying the same
// (session, seq) write is silently ignored. Other constraint violations
// (e.g. missing session) still return errors.
func (s *Store) WriteEntry(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, session_id, seq, action, display, secondary, is_error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, e.ID, e.SessionID, e.Seq, e.Action.String(), e.Display, e.Secondary, boolToInt(e.IsError))
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

// ReadSession returns all entries of a session in seq order.
func (s *Store) ReadSession(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, seq, action, display, secondary, is_error
		FROM entries
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var actionStr string
		var isError int
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &actionStr, &e.Display, &e.Secondary, &isError); err != nil {
			return nil, fmt.Errorf("read session: scan: %w", err)
		}
		action, err := engine.ParseAction(actionStr)
		if err != nil {
			return nil, fmt.Errorf("read session: entry seq %d: %w", e.Seq, err)
		}
		e.Action = action
		e.IsError = isError != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	return entries, nil
}

// LastSeq returns the highest seq recorded for a session, 0 if none.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM entries WHERE session_id = ?
	`, sessionID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

// ListSessions returns all sessions with entry counts, oldest first.
func (s *Store) ListSessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.created_at, s.source, COUNT(e.seq)
		FROM sessions s
		LEFT JOIN entries e ON e.session_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at ASC, s.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		if err := rows.Scan(&info.ID, &info.CreatedAt, &info.Source, &info.EntryCount); err != nil {
			return nil, fmt.Errorf("list sessions: scan: %w", err)
		}
		sessions = append(sessions, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SessionExists reports whether a session record exists.
func (s *Store) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sessions WHERE id = ?
	`, sessionID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return n > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
