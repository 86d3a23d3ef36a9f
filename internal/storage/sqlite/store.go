// Package sqlite persists chat transcripts: sessions and their
// role-tagged messages. Risk assessment reports are deliberately not
// stored here; only the conversation record is kept.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Session lifecycle states.
const (
	StatusActive = "active"
	StatusEnded  = "ended"
)

type Store struct {
	db *sql.DB
}

type SessionRecord struct {
	ID      string
	Channel string
	Status  string
}

type MessageRecord struct {
	SessionID string
	Role      string
	Content   string
	HasImage  bool
	Seq       int
}

type SessionWithMeta struct {
	SessionRecord
	RowID     int64
	CreatedAt string
	UpdatedAt string
}

type MessageWithMeta struct {
	MessageRecord
	CreatedAt string
}

func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %s: %w", p, err)
		}
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func initSchema(db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    channel TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
    session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
    role TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    has_image INTEGER NOT NULL DEFAULT 0,
    seq INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY(session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_messages_session_created ON messages(session_id, created_at);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (s *Store) CreateSession(ctx context.Context, session SessionRecord) error {
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if session.Status == "" {
		session.Status = StatusActive
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, channel, status)
VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    channel=excluded.channel,
    status=excluded.status,
    updated_at=CURRENT_TIMESTAMP
`, session.ID, session.Channel, session.Status)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// AppendMessage records msg at the next free sequence number for its
// session.
func (s *Store) AppendMessage(ctx context.Context, msg MessageRecord) error {
	if strings.TrimSpace(msg.SessionID) == "" {
		return fmt.Errorf("message session id is required")
	}
	if strings.TrimSpace(msg.Role) == "" {
		return fmt.Errorf("message role is required")
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO messages (session_id, role, content, has_image, seq)
SELECT ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1
FROM messages WHERE session_id = ?
`, msg.SessionID, msg.Role, msg.Content, msg.HasImage, msg.SessionID)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *Store) EndSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
UPDATE sessions
SET status = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, StatusEnded, sessionID)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, sessionID string) (*SessionWithMeta, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT rowid, id, channel, status, created_at, updated_at
FROM sessions
WHERE id = ?
LIMIT 1
`, sessionID)

	var rec SessionWithMeta
	if err := row.Scan(&rec.RowID, &rec.ID, &rec.Channel, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &rec, nil
}

// ListSessions pages sessions newest-first using the rowid as a
// bookmark cursor. cursor 0 starts from the newest session.
func (s *Store) ListSessions(ctx context.Context, cursor int64, limit int) ([]SessionWithMeta, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT rowid, id, channel, status, created_at, updated_at
FROM sessions
WHERE (? = 0 OR rowid < ?)
ORDER BY rowid DESC
LIMIT ?
`, cursor, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionWithMeta
	for rows.Next() {
		var rec SessionWithMeta
		if err := rows.Scan(&rec.RowID, &rec.ID, &rec.Channel, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions rows: %w", err)
	}
	return sessions, nil
}

func (s *Store) ListMessages(ctx context.Context, sessionID string) ([]MessageWithMeta, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT session_id, role, content, has_image, seq, created_at
FROM messages
WHERE session_id = ?
ORDER BY seq ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []MessageWithMeta
	for rows.Next() {
		var rec MessageWithMeta
		if err := rows.Scan(&rec.SessionID, &rec.Role, &rec.Content, &rec.HasImage, &rec.Seq, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages rows: %w", err)
	}
	return msgs, nil
}
