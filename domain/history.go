package domain

import (
	"context"
	"time"
)

// HistoryEntry is one persisted (user message, bot response) pair.
type HistoryEntry struct {
	UserMessage string
	BotResponse string
	Timestamp   time.Time
}

// HistoryStore is the append-only per-user conversation log. The core only
// ever appends and reads the full ordered sequence; ClearAll exists for the
// administrative bulk wipe, single entries are never mutated or deleted.
type HistoryStore interface {
	Append(ctx context.Context, userID int, userMessage, botResponse string) error
	// ReadAll returns the user's entries oldest first.
	ReadAll(ctx context.Context, userID int) ([]HistoryEntry, error)
	ClearAll(ctx context.Context, userID int) error
}
