package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ArjunDas2003/ai-chatbot/domain"
)

// PostgresStore persists conversation rows in Postgres, selected with
// DATABASE_URL for multi-node deployments.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS conversations (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL,
		user_message TEXT NOT NULL,
		bot_response TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("creating conversations table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, userID int, userMessage, botResponse string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO conversations (user_id, user_message, bot_response) VALUES ($1, $2, $3)`,
		userID, userMessage, botResponse,
	)
	return err
}

func (s *PostgresStore) ReadAll(ctx context.Context, userID int) ([]domain.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_message, bot_response, created_at FROM conversations WHERE user_id = $1 ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.UserMessage, &entry.BotResponse, &entry.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) ClearAll(ctx context.Context, userID int) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE user_id = $1`, userID)
	return err
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ domain.HistoryStore = (*PostgresStore)(nil)
