package rag

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/koopa0/recall/internal/embed"
)

// Stores bundles the four per-source store dependencies.
// Any of them may be nil; a nil store simply contributes nothing.
type Stores struct {
	Memory    Store[MemoryItem]
	Clipboard Store[ClipboardItem]
	Activity  Store[ActivityItem]
	Search    Store[SearchItem]
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithMaxContextChars overrides the default character budget used by
// RetrieveContext when the caller does not pass one.
func WithMaxContextChars(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxContextChars = n
		}
	}
}

// WithCacheCapacity overrides the embedding cache capacity.
func WithCacheCapacity(n int) Option {
	return func(e *Engine) { e.cacheCapacity = n }
}

// Engine is the retrieval facade: keyword extraction, optional query
// embedding, fan-out source retrieval, and context assembly.
//
// At construction the engine probes the embedding provider once with a
// fixed test string and resolves into a sticky semantic or lexical-only
// state. A later transient embedding failure degrades only the affected
// scoring computation, never the engine-wide state; Reinitialize is the
// explicit way to re-probe a recovered backend.
//
// Engine is safe for concurrent use.
type Engine struct {
	stores   Stores
	provider embed.Provider
	cache    *EmbeddingCache
	scorer   *scorer
	logger   *slog.Logger

	maxContextChars int
	cacheCapacity   int

	mu       sync.RWMutex
	semantic bool
}

// New constructs an Engine and probes the embedding provider.
// A nil provider yields a lexical-only engine.
func New(ctx context.Context, stores Stores, provider embed.Provider, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		stores:          stores,
		provider:        provider,
		logger:          logger,
		maxContextChars: DefaultMaxContextChars,
	}
	for _, opt := range opts {
		opt(e)
	}

	if provider != nil {
		e.cache = NewEmbeddingCache(provider, e.cacheCapacity)
	}
	e.scorer = &scorer{cache: e.cache, logger: logger}

	e.semantic = e.probe(ctx)
	if e.semantic {
		logger.Info("retrieval engine ready", "mode", "semantic")
	} else {
		logger.Info("retrieval engine ready", "mode", "lexical-only")
	}
	return e
}

// probe embeds a fixed test string to decide semantic availability.
func (e *Engine) probe(ctx context.Context) bool {
	if e.cache == nil {
		return false
	}
	if _, err := e.cache.Embed(ctx, probeText); err != nil {
		e.logger.Warn("embedding backend unavailable, falling back to lexical scoring", "error", err)
		return false
	}
	return true
}

// SemanticReady reports whether the engine resolved into semantic mode.
func (e *Engine) SemanticReady() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.semantic
}

// Reinitialize clears the embedding cache and re-probes the backend.
// Intended for operators who know the backend recovered; the engine never
// re-probes on its own.
func (e *Engine) Reinitialize(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache != nil {
		e.cache.Clear()
	}
	e.semantic = e.probe(ctx)
	e.logger.Info("retrieval engine reinitialized", "semantic", e.semantic)
}

// RetrieveOption configures a single RetrieveContext call.
type RetrieveOption func(*retrieveConfig)

type retrieveConfig struct {
	maxChars        int
	includeMemories bool
}

// WithMaxChars sets the character budget for this call's assembled
// context block.
func WithMaxChars(n int) RetrieveOption {
	return func(c *retrieveConfig) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithoutMemories skips the remembered-facts source for this call.
func WithoutMemories() RetrieveOption {
	return func(c *retrieveConfig) { c.includeMemories = false }
}

// RetrieveContext runs the full pipeline for one query: keyword
// extraction, optional query embedding, parallel retrieval from the four
// sources, and context assembly.
//
// Individual store failures are absorbed as empty lists; the only error
// returned is context cancellation. Timeouts are the caller's
// responsibility.
func (e *Engine) RetrieveContext(ctx context.Context, queryText string, opts ...RetrieveOption) (*Context, error) {
	cfg := retrieveConfig{maxChars: e.maxContextChars, includeMemories: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	keywords := ExtractKeywords(queryText)

	var queryEmbedding []float32
	if e.SemanticReady() {
		vec, err := e.cache.Embed(ctx, queryText)
		if err != nil {
			// Transient failure: this call runs lexical-only, the
			// engine-wide state is untouched.
			e.logger.Debug("query embedding failed, lexical-only for this call", "error", err)
		} else {
			queryEmbedding = vec
		}
	}

	q := newQuery(queryText, keywords, queryEmbedding)
	result := &Context{
		Query:              queryText,
		Keywords:           keywords,
		UsedSemanticSearch: queryEmbedding != nil,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if cfg.includeMemories && e.stores.Memory != nil {
		eg.Go(func() error {
			r := newRetriever(e.stores.Memory, memoryConfig(), e.scorer, e.logger)
			result.Memories = r.retrieve(egCtx, q)
			return egCtx.Err()
		})
	}
	if e.stores.Clipboard != nil {
		eg.Go(func() error {
			r := newRetriever(e.stores.Clipboard, clipboardConfig(), e.scorer, e.logger)
			result.Clipboard = r.retrieve(egCtx, q)
			return egCtx.Err()
		})
	}
	if e.stores.Activity != nil {
		eg.Go(func() error {
			r := newRetriever(e.stores.Activity, activityConfig(), e.scorer, e.logger)
			result.Activity = r.retrieve(egCtx, q)
			return egCtx.Err()
		})
	}
	if e.stores.Search != nil {
		eg.Go(func() error {
			r := newRetriever(e.stores.Search, searchConfig(), e.scorer, e.logger)
			result.Searches = r.retrieve(egCtx, q)
			return egCtx.Err()
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result.ContextString = assembleContext(
		result.Memories, result.Activity, result.Clipboard, result.Searches,
		cfg.maxChars,
	)

	e.logger.Debug("context retrieved",
		"query", queryText,
		"keywords", len(keywords),
		"items", result.TotalItems(),
		"semantic", result.UsedSemanticSearch,
		"chars", len(result.ContextString),
	)
	return result, nil
}

func memoryConfig() sourceConfig[MemoryItem] {
	return sourceConfig[MemoryItem]{
		name:         "memory",
		recentLimit:  memoryRecentLimit,
		maxResults:   memoryMaxResults,
		staticBoost:  MemoryItem.staticBoost,
		recencyBoost: noRecency,
	}
}

func clipboardConfig() sourceConfig[ClipboardItem] {
	return sourceConfig[ClipboardItem]{
		name:         "clipboard",
		recentLimit:  clipboardRecentLimit,
		keywordLimit: clipboardKeywordLimit,
		maxResults:   clipboardMaxResults,
		staticBoost:  ClipboardItem.staticBoost,
		recencyBoost: clipboardRecency,
	}
}

func activityConfig() sourceConfig[ActivityItem] {
	return sourceConfig[ActivityItem]{
		name:         "activity",
		recentLimit:  activityRecentLimit,
		keywordLimit: activityKeywordLimit,
		maxResults:   activityMaxResults,
		staticBoost:  func(ActivityItem) float64 { return 0 },
		recencyBoost: activityRecency,
	}
}

func searchConfig() sourceConfig[SearchItem] {
	return sourceConfig[SearchItem]{
		name:         "search",
		recentLimit:  searchRecentLimit,
		keywordLimit: searchKeywordLimit,
		maxResults:   searchMaxResults,
		staticBoost:  func(SearchItem) float64 { return 0 },
		recencyBoost: activityRecency,
	}
}
