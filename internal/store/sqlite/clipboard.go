package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/koopa0/recall/internal/rag"
)

// ClipboardStore persists captured clipboard snippets, deduplicated by
// content hash.
type ClipboardStore struct {
	db *sql.DB
}

const clipboardCols = "hash, content, pinned, created_at"

// HashContent derives the identity hash for a clipboard snippet.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Add records a snippet. Re-copying identical content refreshes its
// timestamp instead of creating a duplicate row.
func (s *ClipboardStore) Add(ctx context.Context, content string, pinned bool) (rag.ClipboardItem, error) {
	item := rag.ClipboardItem{
		Hash:      HashContent(content),
		Content:   content,
		Pinned:    pinned,
		CreatedAt: time.Now(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO clipboard (hash, content, pinned, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET
			created_at = excluded.created_at,
			pinned = pinned OR excluded.pinned`,
		item.Hash, item.Content, item.Pinned, item.CreatedAt,
	)
	if err != nil {
		return rag.ClipboardItem{}, fmt.Errorf("failed to add clipboard item: %w", err)
	}
	return item, nil
}

// Pin marks a snippet as pinned so it survives ranking pressure.
func (s *ClipboardStore) Pin(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE clipboard SET pinned = 1 WHERE hash = ?", hash)
	if err != nil {
		return fmt.Errorf("failed to pin clipboard item: %w", err)
	}
	return nil
}

// Recent implements rag.Store.
func (s *ClipboardStore) Recent(ctx context.Context, limit int) ([]rag.ClipboardItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+clipboardCols+" FROM clipboard ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent clipboard items: %w", err)
	}
	defer rows.Close()
	return scanClipboard(rows)
}

// SearchKeyword implements rag.Store.
func (s *ClipboardStore) SearchKeyword(ctx context.Context, keyword string, limit int) ([]rag.ClipboardItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+clipboardCols+` FROM clipboard
		 WHERE content LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		likePattern(keyword), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search clipboard: %w", err)
	}
	defer rows.Close()
	return scanClipboard(rows)
}

// Since implements rag.Store.
func (s *ClipboardStore) Since(ctx context.Context, t time.Time) ([]rag.ClipboardItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+clipboardCols+" FROM clipboard WHERE created_at >= ? ORDER BY created_at DESC", t)
	if err != nil {
		return nil, fmt.Errorf("failed to query clipboard since %v: %w", t, err)
	}
	defer rows.Close()
	return scanClipboard(rows)
}

func scanClipboard(rows *sql.Rows) ([]rag.ClipboardItem, error) {
	var items []rag.ClipboardItem
	for rows.Next() {
		var it rag.ClipboardItem
		if err := rows.Scan(&it.Hash, &it.Content, &it.Pinned, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan clipboard row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
