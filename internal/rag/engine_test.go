package rag

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/koopa0/recall/internal/embed"
	"github.com/koopa0/recall/internal/log"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func memoryOnlyStores() Stores {
	return Stores{
		Memory: &fakeStore[MemoryItem]{items: []MemoryItem{
			{Key: "favorite_color", Value: "blue", Importance: 8, AccessCount: 2, CreatedAt: time.Now()},
		}},
	}
}

func TestEngineLexicalOnlyWithoutProvider(t *testing.T) {
	ctx := context.Background()
	engine := New(ctx, memoryOnlyStores(), nil, log.NewNop())

	assert.False(t, engine.SemanticReady())

	result, err := engine.RetrieveContext(ctx, "what is my favorite color")
	require.NoError(t, err)

	assert.False(t, result.UsedSemanticSearch)
	assert.Equal(t, []string{"favorite", "color"}, result.Keywords)
	require.NotEmpty(t, result.Memories)
	assert.Equal(t, "favorite_color", result.Memories[0].Item.Key)
	assert.Contains(t, result.ContextString, "favorite_color: blue")
	assert.False(t, result.IsEmpty())
	assert.Equal(t, 1, result.TotalItems())
}

func TestEngineProbeFailureFallsBackToLexical(t *testing.T) {
	ctx := context.Background()
	provider := embed.Func(func(context.Context, string) ([]float32, error) {
		return nil, errors.New("backend not loaded")
	})
	engine := New(ctx, memoryOnlyStores(), provider, log.NewNop())

	assert.False(t, engine.SemanticReady())

	result, err := engine.RetrieveContext(ctx, "what is my favorite color")
	require.NoError(t, err)
	assert.False(t, result.UsedSemanticSearch)
	require.NotEmpty(t, result.Memories)
}

func TestEngineSemanticFlagStickyAcrossTransientFailures(t *testing.T) {
	// The availability flag is resolved once at the probe. A later
	// failure degrades single calls, never the engine state.
	ctx := context.Background()
	var failing atomic.Bool
	provider := embed.Func(func(context.Context, string) ([]float32, error) {
		if failing.Load() {
			return nil, errors.New("transient inference failure")
		}
		return []float32{1, 0, 0}, nil
	})
	engine := New(ctx, memoryOnlyStores(), provider, log.NewNop())
	require.True(t, engine.SemanticReady())

	failing.Store(true)
	result, err := engine.RetrieveContext(ctx, "brand new query text")
	require.NoError(t, err)

	assert.False(t, result.UsedSemanticSearch)
	assert.True(t, engine.SemanticReady(), "transient failure must not flip the engine state")
}

func TestEngineReinitialize(t *testing.T) {
	ctx := context.Background()
	var failing atomic.Bool
	failing.Store(true)
	provider := embed.Func(func(context.Context, string) ([]float32, error) {
		if failing.Load() {
			return nil, errors.New("backend starting up")
		}
		return []float32{1, 0, 0}, nil
	})

	engine := New(ctx, memoryOnlyStores(), provider, log.NewNop())
	require.False(t, engine.SemanticReady())

	// Backend recovers; only an explicit reinitialization picks it up.
	failing.Store(false)
	require.False(t, engine.SemanticReady())

	engine.Reinitialize(ctx)
	assert.True(t, engine.SemanticReady())
}

func TestRetrieveContextSemanticMode(t *testing.T) {
	ctx := context.Background()
	provider := embed.Func(func(_ context.Context, text string) ([]float32, error) {
		if text == "what is my favorite color" {
			return []float32{1, 0, 0}, nil
		}
		return []float32{0.9, 0.1, 0}, nil
	})
	engine := New(ctx, memoryOnlyStores(), provider, log.NewNop())
	require.True(t, engine.SemanticReady())

	result, err := engine.RetrieveContext(ctx, "what is my favorite color")
	require.NoError(t, err)

	assert.True(t, result.UsedSemanticSearch)
	require.NotEmpty(t, result.Memories)
	assert.True(t, result.Memories[0].UsedSemantic)
}

func TestRetrieveContextStoreFailureIsolation(t *testing.T) {
	ctx := context.Background()
	stores := Stores{
		Memory: &fakeStore[MemoryItem]{
			recentErr: errors.New("memory store corrupt"),
			searchErr: errors.New("memory store corrupt"),
		},
		Clipboard: clipStore(clip("h1", "the wifi password is hunter2", time.Hour)),
	}
	engine := New(ctx, stores, nil, log.NewNop())

	result, err := engine.RetrieveContext(ctx, "wifi password")
	require.NoError(t, err, "one failing source must not abort the call")

	assert.Empty(t, result.Memories)
	require.NotEmpty(t, result.Clipboard)
	assert.Equal(t, "h1", result.Clipboard[0].Item.Hash)
}

func TestRetrieveContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := New(context.Background(), memoryOnlyStores(), nil, log.NewNop())
	_, err := engine.RetrieveContext(ctx, "anything")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetrieveContextWithoutMemories(t *testing.T) {
	ctx := context.Background()
	stores := memoryOnlyStores()
	stores.Clipboard = clipStore(clip("h1", "favorite color swatch", time.Hour))
	engine := New(ctx, stores, nil, log.NewNop())

	result, err := engine.RetrieveContext(ctx, "favorite color", WithoutMemories())
	require.NoError(t, err)
	assert.Empty(t, result.Memories)
	assert.NotEmpty(t, result.Clipboard)
}

func TestRetrieveContextHonorsMaxChars(t *testing.T) {
	ctx := context.Background()
	var items []ClipboardItem
	for i := range 30 {
		items = append(items, clip(string(rune('a'+i)), "wifi configuration notes with a fairly long body of text attached", time.Hour))
	}
	engine := New(ctx, Stores{Clipboard: clipStore(items...)}, nil, log.NewNop())

	result, err := engine.RetrieveContext(ctx, "wifi configuration", WithMaxChars(600))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.ContextString), 600)
}

func TestFindSimilarRequiresSemanticMode(t *testing.T) {
	ctx := context.Background()
	stores := Stores{
		Activity: &fakeStore[ActivityItem]{items: []ActivityItem{
			{EntryID: "a1", AppName: "Browser", VisibleText: "anything at all", CreatedAt: time.Now()},
		}},
	}
	engine := New(ctx, stores, nil, log.NewNop())

	results, err := engine.FindSimilar(ctx, "anything at all", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "lexical-only engines must return an empty list, not a lexical approximation")
}

func TestFindSimilarRanksBySimilarity(t *testing.T) {
	ctx := context.Background()
	vectors := map[string][]float32{
		"rust borrow checker":          {1, 0, 0},
		"Browser rust ownership guide": {0.95, 0.05, 0},
		"Notes shopping list":          {-1, 0, 0},
		"pasta recipe with garlic":     {0.5, 0.5, 0},
	}
	provider := embed.Func(func(_ context.Context, text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		return []float32{0, 0, 1}, nil
	})

	stores := Stores{
		Activity: &fakeStore[ActivityItem]{items: []ActivityItem{
			{EntryID: "a1", AppName: "Browser", ScreenTitle: "rust ownership guide", CreatedAt: time.Now()},
			{EntryID: "a2", AppName: "Notes", ScreenTitle: "shopping list", CreatedAt: time.Now()},
		}},
		Clipboard: clipStore(clip("h1", "pasta recipe with garlic", time.Hour)),
	}
	engine := New(ctx, stores, provider, log.NewNop())
	require.True(t, engine.SemanticReady())

	results, err := engine.FindSimilar(ctx, "rust borrow checker", 10)
	require.NoError(t, err)

	// The opposite-direction vector falls below the threshold.
	require.Len(t, results, 2)
	assert.Equal(t, "activity", results[0].Source)
	assert.Equal(t, "clipboard", results[1].Source)
	assert.GreaterOrEqual(t, results[0].Similarity, results[1].Similarity)
}

func TestFindSimilarHonorsLimit(t *testing.T) {
	ctx := context.Background()
	provider := embed.Func(func(context.Context, string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	})
	var items []ActivityItem
	for i := range 20 {
		items = append(items, ActivityItem{
			EntryID:   string(rune('a' + i)),
			AppName:   "App",
			CreatedAt: time.Now(),
		})
	}
	engine := New(ctx, Stores{Activity: &fakeStore[ActivityItem]{items: items}}, provider, log.NewNop())

	results, err := engine.FindSimilar(ctx, "query", 5)
	require.NoError(t, err)
	assert.Len(t, results, 5)
}
