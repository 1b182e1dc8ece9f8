package rag

import (
	"context"
	"strings"
	"time"
)

// Item is the common surface the scoring and retrieval machinery needs
// from a candidate, regardless of which source produced it.
type Item interface {
	// ID uniquely identifies the item within its source, used for
	// candidate-pool deduplication.
	ID() string

	// SearchText returns the text the item is scored against.
	SearchText() string

	// Time returns the item's creation time.
	Time() time.Time
}

// Store is the per-source persistence contract. Implementations are owned
// by collaborators; the engine only reads from them.
type Store[T Item] interface {
	// Recent returns up to limit items, newest first.
	Recent(ctx context.Context, limit int) ([]T, error)

	// SearchKeyword returns up to limit items whose text contains keyword.
	SearchKeyword(ctx context.Context, keyword string, limit int) ([]T, error)

	// Since returns items created at or after the given time, newest first.
	Since(ctx context.Context, t time.Time) ([]T, error)
}

// MemoryItem is a remembered fact.
type MemoryItem struct {
	Key         string
	Value       string
	Category    string
	Importance  int // 1-10
	AccessCount int
	CreatedAt   time.Time
}

func (m MemoryItem) ID() string      { return m.Key }
func (m MemoryItem) Time() time.Time { return m.CreatedAt }
func (m MemoryItem) SearchText() string {
	return m.Key + " " + m.Value
}

// staticBoost favors facts the user marked important or recalls often.
func (m MemoryItem) staticBoost() float64 {
	return float64(m.Importance)/10 + float64(m.AccessCount)/100
}

// ClipboardItem is a captured clipboard snippet, identified by content hash.
type ClipboardItem struct {
	Hash      string
	Content   string
	Pinned    bool
	CreatedAt time.Time
}

func (c ClipboardItem) ID() string         { return c.Hash }
func (c ClipboardItem) Time() time.Time    { return c.CreatedAt }
func (c ClipboardItem) SearchText() string { return c.Content }

func (c ClipboardItem) staticBoost() float64 {
	if c.Pinned {
		return pinnedBoost
	}
	return 0
}

// ActivityItem is a screen-activity snapshot.
type ActivityItem struct {
	EntryID     string
	AppName     string
	ScreenTitle string
	VisibleText string
	CreatedAt   time.Time
}

func (a ActivityItem) ID() string      { return a.EntryID }
func (a ActivityItem) Time() time.Time { return a.CreatedAt }
func (a ActivityItem) SearchText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{a.AppName, a.ScreenTitle, a.VisibleText} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SearchItem is a past search query.
type SearchItem struct {
	EntryID   string
	Query     string
	SourceApp string
	CreatedAt time.Time
}

func (s SearchItem) ID() string         { return s.EntryID }
func (s SearchItem) Time() time.Time    { return s.CreatedAt }
func (s SearchItem) SearchText() string { return s.Query }

// Ranked pairs a candidate with its relevance score.
// Within any ranked list items are ordered by Score descending.
type Ranked[T Item] struct {
	Item T

	// Score is the combined relevance score in [0,1].
	Score float64

	// UsedSemantic reports whether a semantic similarity component
	// contributed to Score for this particular item.
	UsedSemantic bool
}

// Context is the result of a full retrieval pass.
type Context struct {
	Query    string
	Keywords []string

	Memories  []Ranked[MemoryItem]
	Activity  []Ranked[ActivityItem]
	Clipboard []Ranked[ClipboardItem]
	Searches  []Ranked[SearchItem]

	// ContextString is the assembled, character-budgeted text block
	// intended to be inserted verbatim into a model prompt.
	ContextString string

	// UsedSemanticSearch reports whether the query was embedded and
	// semantic scoring was active for this call.
	UsedSemanticSearch bool
}

// TotalItems returns the summed length of the four ranked lists.
func (c *Context) TotalItems() int {
	return len(c.Memories) + len(c.Activity) + len(c.Clipboard) + len(c.Searches)
}

// IsEmpty reports whether all four ranked lists are empty.
func (c *Context) IsEmpty() bool {
	return c.TotalItems() == 0
}

// SimilarContent is a single FindSimilar result.
type SimilarContent struct {
	// Source names the originating collection ("activity" or "clipboard").
	Source     string
	Text       string
	Similarity float64
	CreatedAt  time.Time
}
