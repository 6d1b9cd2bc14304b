// Package store persists conversation memories and system prompts in
// SQLite. The database is a single file under the workspace; the schema is
// created on open.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"marvin/internal/logging"
)

// Store wraps the agent database.
type Store struct {
	db   *sql.DB
	path string
}

// Memory is one remembered fact.
type Memory struct {
	ID        int64
	UserID    string
	Content   string
	CreatedAt string
}

// Open creates or opens the agent database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logging.Store("Opened database: %s", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_memories_user ON memories(user_id);

	CREATE TABLE IF NOT EXISTS prompts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		content TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Remember stores one fact for a user and returns its id.
func (s *Store) Remember(ctx context.Context, userID, content string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (user_id, content) VALUES (?, ?)`, userID, content)
	if err != nil {
		return 0, fmt.Errorf("remember: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("remember: %w", err)
	}
	logging.StoreDebug("Stored memory %d for user %s", id, userID)
	return id, nil
}

// Recall returns up to limit memories for a user matching query, newest
// first. An empty query returns the newest memories unconditionally.
func (s *Store) Recall(ctx context.Context, userID, query string, limit int) ([]Memory, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, content, created_at FROM memories
		 WHERE user_id = ? AND content LIKE ?
		 ORDER BY id DESC LIMIT ?`,
		userID, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("recall: %w", err)
	}
	defer rows.Close()

	var out []Memory
	for rows.Next() {
		var m Memory
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("recall scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Forget deletes memories for a user matching query and reports how many
// rows were removed.
func (s *Store) Forget(ctx context.Context, userID, query string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM memories WHERE user_id = ? AND content LIKE ?`,
		userID, "%"+query+"%")
	if err != nil {
		return 0, fmt.Errorf("forget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("forget: %w", err)
	}
	logging.StoreDebug("Forgot %d memories for user %s", n, userID)
	return n, nil
}

// ActivePrompt returns the content of the active prompt with the given
// name. Returns sql.ErrNoRows wrapped when no active row exists.
func (s *Store) ActivePrompt(ctx context.Context, name string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM prompts WHERE name = ? AND is_active = 1`, name).
		Scan(&content)
	if err != nil {
		return "", fmt.Errorf("active prompt %q: %w", name, err)
	}
	return content, nil
}

// SetPrompt creates or replaces the prompt with the given name, marking it
// active and bumping its updated_at.
func (s *Store) SetPrompt(ctx context.Context, name, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO prompts (name, content, is_active, updated_at)
		 VALUES (?, ?, 1, datetime('now'))
		 ON CONFLICT(name) DO UPDATE SET
		   content = excluded.content,
		   is_active = 1,
		   updated_at = datetime('now')`,
		name, content)
	if err != nil {
		return fmt.Errorf("set prompt %q: %w", name, err)
	}
	logging.StoreDebug("Updated prompt %s (%d bytes)", name, len(content))
	return nil
}
