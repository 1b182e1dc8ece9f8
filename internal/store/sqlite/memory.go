package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/koopa0/recall/internal/rag"
)

// MemoryStore persists remembered facts.
type MemoryStore struct {
	db *sql.DB
}

const memoryCols = "key, value, category, importance, access_count, created_at"

// Upsert stores a fact, replacing any existing value for the same key.
// A replaced fact keeps its access count.
func (s *MemoryStore) Upsert(ctx context.Context, item rag.MemoryItem) error {
	if item.Key == "" {
		return fmt.Errorf("memory key must not be empty")
	}
	if item.Importance < 1 || item.Importance > 10 {
		return fmt.Errorf("importance must be between 1 and 10, got %d", item.Importance)
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memories (key, value, category, importance, access_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			category = excluded.category,
			importance = excluded.importance,
			created_at = excluded.created_at`,
		item.Key, item.Value, item.Category, item.Importance, item.AccessCount, item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert memory %q: %w", item.Key, err)
	}
	return nil
}

// RecordAccess increments a fact's access count, feeding its static
// retrieval boost.
func (s *MemoryStore) RecordAccess(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE memories SET access_count = access_count + 1 WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to record access for %q: %w", key, err)
	}
	return nil
}

// Delete removes a fact by key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM memories WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete memory %q: %w", key, err)
	}
	return nil
}

// Recent implements rag.Store.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]rag.MemoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memoryCols+" FROM memories ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// SearchKeyword implements rag.Store.
func (s *MemoryStore) SearchKeyword(ctx context.Context, keyword string, limit int) ([]rag.MemoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memoryCols+` FROM memories
		 WHERE key LIKE ? ESCAPE '\' OR value LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		likePattern(keyword), likePattern(keyword), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

// Since implements rag.Store.
func (s *MemoryStore) Since(ctx context.Context, t time.Time) ([]rag.MemoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memoryCols+" FROM memories WHERE created_at >= ? ORDER BY created_at DESC", t)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories since %v: %w", t, err)
	}
	defer rows.Close()
	return scanMemories(rows)
}

func scanMemories(rows *sql.Rows) ([]rag.MemoryItem, error) {
	var items []rag.MemoryItem
	for rows.Next() {
		var it rag.MemoryItem
		if err := rows.Scan(&it.Key, &it.Value, &it.Category, &it.Importance, &it.AccessCount, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
