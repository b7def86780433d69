package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// SQLiteStore persists per-user conversation rows in a SQLite database, the
// default backend for single-node deployments.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// conversations table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		user_message TEXT NOT NULL,
		bot_response TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);`)
	if err != nil {
		return fmt.Errorf("creating conversations table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, userID int, userMessage, botResponse string) error {
	// sqlite allows one writer at a time; serialize appends ourselves.
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (user_id, user_message, bot_response, timestamp) VALUES (?, ?, ?, ?)`,
		userID, userMessage, botResponse, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) ReadAll(ctx context.Context, userID int) ([]domain.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_message, bot_response, timestamp FROM conversations WHERE user_id = ? ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var ts string
		if err := rows.Scan(&entry.UserMessage, &entry.BotResponse, &ts); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Timestamp = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) ClearAll(ctx context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE user_id = ?`, userID)
	return err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ domain.HistoryStore = (*SQLiteStore)(nil)
