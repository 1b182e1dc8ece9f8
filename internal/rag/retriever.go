package rag

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// sourceConfig fixes the retrieval behavior of one source: pool sizes,
// result cap, and the source's boost rules.
type sourceConfig[T Item] struct {
	name string

	recentLimit  int
	keywordLimit int // 0 disables per-keyword pool expansion
	maxResults   int

	staticBoost  func(T) float64
	recencyBoost func(age time.Duration) float64
}

// retriever fetches a candidate pool from one source's store, scores it,
// and returns a ranked, capped list.
//
// Store failures are isolated here: a failing query contributes nothing
// to the pool and is logged, but retrieve never returns an error. This
// keeps one broken source from aborting a whole retrieval pass.
type retriever[T Item] struct {
	store  Store[T]
	cfg    sourceConfig[T]
	scorer *scorer
	logger *slog.Logger
}

func newRetriever[T Item](store Store[T], cfg sourceConfig[T], sc *scorer, logger *slog.Logger) *retriever[T] {
	return &retriever[T]{
		store:  store,
		cfg:    cfg,
		scorer: sc,
		logger: logger.With("source", cfg.name),
	}
}

// retrieve runs the full pool-score-filter-rank pipeline for one query.
func (r *retriever[T]) retrieve(ctx context.Context, q query) []Ranked[T] {
	pool := r.candidates(ctx, q)
	if len(pool) == 0 {
		return nil
	}

	now := time.Now()
	threshold := q.threshold()

	ranked := make([]Ranked[T], 0, len(pool))
	for _, item := range pool {
		score, usedSemantic := r.scorer.score(ctx, q,
			item.SearchText(),
			r.cfg.staticBoost(item),
			r.cfg.recencyBoost(now.Sub(item.Time())),
		)
		if score < threshold {
			continue
		}
		ranked = append(ranked, Ranked[T]{Item: item, Score: score, UsedSemantic: usedSemantic})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > r.cfg.maxResults {
		ranked = ranked[:r.cfg.maxResults]
	}
	return ranked
}

// candidates builds the deduplicated pool: recent items plus, for each
// keyword, a keyword-search slice.
func (r *retriever[T]) candidates(ctx context.Context, q query) []T {
	var pool []T
	seen := make(map[string]struct{})

	add := func(items []T) {
		for _, it := range items {
			id := it.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			pool = append(pool, it)
		}
	}

	recent, err := r.store.Recent(ctx, r.cfg.recentLimit)
	if err != nil {
		r.logger.Warn("recent fetch failed", "error", err)
	} else {
		add(recent)
	}

	if r.cfg.keywordLimit > 0 {
		for _, kw := range q.keywords {
			matches, err := r.store.SearchKeyword(ctx, kw, r.cfg.keywordLimit)
			if err != nil {
				r.logger.Warn("keyword search failed", "keyword", kw, "error", err)
				continue
			}
			add(matches)
		}
	}

	return pool
}
