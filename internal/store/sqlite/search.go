package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/koopa0/recall/internal/rag"
)

// SearchStore persists past search queries observed on the device.
type SearchStore struct {
	db *sql.DB
}

const searchCols = "id, query, source_app, created_at"

// Add records one search query with a surrogate id.
func (s *SearchStore) Add(ctx context.Context, queryText, sourceApp string) (rag.SearchItem, error) {
	item := rag.SearchItem{
		EntryID:   uuid.NewString(),
		Query:     queryText,
		SourceApp: sourceApp,
		CreatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO searches (id, query, source_app, created_at) VALUES (?, ?, ?, ?)",
		item.EntryID, item.Query, item.SourceApp, item.CreatedAt,
	)
	if err != nil {
		return rag.SearchItem{}, fmt.Errorf("failed to add search entry: %w", err)
	}
	return item, nil
}

// Recent implements rag.Store.
func (s *SearchStore) Recent(ctx context.Context, limit int) ([]rag.SearchItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+searchCols+" FROM searches ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent searches: %w", err)
	}
	defer rows.Close()
	return scanSearches(rows)
}

// SearchKeyword implements rag.Store.
func (s *SearchStore) SearchKeyword(ctx context.Context, keyword string, limit int) ([]rag.SearchItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+searchCols+` FROM searches
		 WHERE query LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		likePattern(keyword), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search past queries: %w", err)
	}
	defer rows.Close()
	return scanSearches(rows)
}

// Since implements rag.Store.
func (s *SearchStore) Since(ctx context.Context, t time.Time) ([]rag.SearchItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+searchCols+" FROM searches WHERE created_at >= ? ORDER BY created_at DESC", t)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches since %v: %w", t, err)
	}
	defer rows.Close()
	return scanSearches(rows)
}

func scanSearches(rows *sql.Rows) ([]rag.SearchItem, error) {
	var items []rag.SearchItem
	for rows.Next() {
		var it rag.SearchItem
		if err := rows.Scan(&it.EntryID, &it.Query, &it.SourceApp, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
