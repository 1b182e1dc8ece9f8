package rag

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedMemories(n int, valueLen int) []Ranked[MemoryItem] {
	items := make([]Ranked[MemoryItem], n)
	for i := range items {
		items[i] = Ranked[MemoryItem]{
			Item: MemoryItem{
				Key:       fmt.Sprintf("key_%d", i),
				Value:     strings.Repeat("v", valueLen),
				CreatedAt: time.Now(),
			},
			Score: 1 - float64(i)/float64(n),
		}
	}
	return items
}

func rankedClips(n int, contentLen int) []Ranked[ClipboardItem] {
	items := make([]Ranked[ClipboardItem], n)
	for i := range items {
		items[i] = Ranked[ClipboardItem]{
			Item: ClipboardItem{
				Hash:      fmt.Sprintf("hash%d", i),
				Content:   strings.Repeat("c", contentLen),
				CreatedAt: time.Now().Add(-time.Duration(i) * time.Hour),
			},
			Score: 1 - float64(i)/float64(n),
		}
	}
	return items
}

func TestAssembleContextSectionOrder(t *testing.T) {
	memories := rankedMemories(2, 10)
	activity := []Ranked[ActivityItem]{{
		Item: ActivityItem{EntryID: "a1", AppName: "Browser", ScreenTitle: "Docs", CreatedAt: time.Now()},
	}}
	clipboard := rankedClips(2, 20)
	searches := []Ranked[SearchItem]{{
		Item: SearchItem{EntryID: "s1", Query: "golang generics", CreatedAt: time.Now()},
	}}

	out := assembleContext(memories, activity, clipboard, searches, 4000)

	memIdx := strings.Index(out, "## Remembered facts")
	actIdx := strings.Index(out, "## Recent screen activity")
	clipIdx := strings.Index(out, "## Clipboard")
	searchIdx := strings.Index(out, "## Recent searches")

	require.GreaterOrEqual(t, memIdx, 0)
	require.Greater(t, actIdx, memIdx)
	require.Greater(t, clipIdx, actIdx)
	require.Greater(t, searchIdx, clipIdx)
}

func TestAssembleContextNeverExceedsBudget(t *testing.T) {
	// Arbitrarily many, arbitrarily long items must never push the
	// output past maxChars.
	for _, maxChars := range []int{300, 500, 1000, 3500} {
		out := assembleContext(
			rankedMemories(50, 400),
			nil,
			rankedClips(50, 400),
			nil,
			maxChars,
		)
		assert.LessOrEqual(t, len(out), maxChars, "budget %d", maxChars)
	}
}

func TestAssembleContextSkipsSectionsWhenBudgetExhausted(t *testing.T) {
	// A tight budget surfaces the highest-priority source and drops
	// later sections entirely.
	out := assembleContext(
		rankedMemories(10, 150),
		[]Ranked[ActivityItem]{{Item: ActivityItem{EntryID: "a1", AppName: "Mail", CreatedAt: time.Now()}}},
		rankedClips(10, 150),
		nil,
		400,
	)

	assert.Contains(t, out, "## Remembered facts")
	assert.NotContains(t, out, "## Clipboard")
}

func TestAssembleContextEmptyInput(t *testing.T) {
	out := assembleContext(nil, nil, nil, nil, 3500)
	assert.Empty(t, out)
}

func TestAssembleContextTruncatesLongValues(t *testing.T) {
	clipboard := []Ranked[ClipboardItem]{{
		Item: ClipboardItem{
			Hash:      "h",
			Content:   strings.Repeat("long ", 100),
			CreatedAt: time.Now(),
		},
		Score: 0.9,
	}}

	out := assembleContext(nil, nil, clipboard, nil, 3500)
	assert.Contains(t, out, "...")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(line), 200)
	}
}

func TestAssembleContextPinnedMarker(t *testing.T) {
	clipboard := []Ranked[ClipboardItem]{{
		Item: ClipboardItem{Hash: "h", Content: "keep me", Pinned: true, CreatedAt: time.Now()},
	}}
	out := assembleContext(nil, nil, clipboard, nil, 3500)
	assert.Contains(t, out, "(pinned)")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 100))
	assert.Equal(t, "one two", truncateText("one\n\ntwo", 100))

	long := strings.Repeat("a", 150)
	got := truncateText(long, 100)
	assert.Len(t, got, 103)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "just now", relativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "5m ago", relativeTime(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", relativeTime(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2d ago", relativeTime(now.Add(-49*time.Hour), now))

	old := now.Add(-30 * 24 * time.Hour)
	assert.Equal(t, old.Format("2006-01-02"), relativeTime(old, now))
}
