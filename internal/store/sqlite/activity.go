package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/koopa0/recall/internal/rag"
)

// ActivityStore persists screen-activity snapshots from the capture layer.
type ActivityStore struct {
	db *sql.DB
}

const activityCols = "id, app_name, screen_title, visible_text, created_at"

// Add records one snapshot, assigning a surrogate id.
func (s *ActivityStore) Add(ctx context.Context, appName, screenTitle, visibleText string) (rag.ActivityItem, error) {
	item := rag.ActivityItem{
		EntryID:     uuid.NewString(),
		AppName:     appName,
		ScreenTitle: screenTitle,
		VisibleText: visibleText,
		CreatedAt:   time.Now(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO activity (id, app_name, screen_title, visible_text, created_at) VALUES (?, ?, ?, ?, ?)",
		item.EntryID, item.AppName, item.ScreenTitle, item.VisibleText, item.CreatedAt,
	)
	if err != nil {
		return rag.ActivityItem{}, fmt.Errorf("failed to add activity entry: %w", err)
	}
	return item, nil
}

// Prune deletes entries older than the cutoff and returns how many were
// removed. Screen capture produces entries continuously; without pruning
// the activity table grows without bound.
func (s *ActivityStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM activity WHERE created_at < ?", olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity: %w", err)
	}
	return res.RowsAffected()
}

// Recent implements rag.Store.
func (s *ActivityStore) Recent(ctx context.Context, limit int) ([]rag.ActivityItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+activityCols+" FROM activity ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()
	return scanActivity(rows)
}

// SearchKeyword implements rag.Store.
func (s *ActivityStore) SearchKeyword(ctx context.Context, keyword string, limit int) ([]rag.ActivityItem, error) {
	pattern := likePattern(keyword)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+activityCols+` FROM activity
		 WHERE app_name LIKE ? ESCAPE '\' OR screen_title LIKE ? ESCAPE '\' OR visible_text LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search activity: %w", err)
	}
	defer rows.Close()
	return scanActivity(rows)
}

// Since implements rag.Store.
func (s *ActivityStore) Since(ctx context.Context, t time.Time) ([]rag.ActivityItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+activityCols+" FROM activity WHERE created_at >= ? ORDER BY created_at DESC", t)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity since %v: %w", t, err)
	}
	defer rows.Close()
	return scanActivity(rows)
}

func scanActivity(rows *sql.Rows) ([]rag.ActivityItem, error) {
	var items []rag.ActivityItem
	for rows.Next() {
		var it rag.ActivityItem
		if err := rows.Scan(&it.EntryID, &it.AppName, &it.ScreenTitle, &it.VisibleText, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
