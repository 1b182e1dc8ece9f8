package rag

import (
	"context"
	"sort"
)

// FindSimilar embeds text and scans the recent activity and clipboard
// pools for semantically similar content, with no keyword prefilter.
//
// This operation requires semantic mode: when the engine resolved into
// lexical-only state the result is an empty list, never a lexical
// approximation.
func (e *Engine) FindSimilar(ctx context.Context, text string, limit int) ([]SimilarContent, error) {
	if !e.SemanticReady() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryVec, err := e.cache.Embed(ctx, text)
	if err != nil {
		e.logger.Debug("find-similar query embedding failed", "error", err)
		return nil, nil
	}

	var results []SimilarContent

	if e.stores.Activity != nil {
		items, err := e.stores.Activity.Recent(ctx, activityRecentLimit)
		if err != nil {
			e.logger.Warn("activity fetch failed", "error", err)
		}
		for _, it := range items {
			if sim, ok := e.similarity(ctx, queryVec, it.SearchText()); ok {
				results = append(results, SimilarContent{
					Source:     "activity",
					Text:       it.SearchText(),
					Similarity: sim,
					CreatedAt:  it.Time(),
				})
			}
		}
	}

	if e.stores.Clipboard != nil {
		items, err := e.stores.Clipboard.Recent(ctx, clipboardRecentLimit)
		if err != nil {
			e.logger.Warn("clipboard fetch failed", "error", err)
		}
		for _, it := range items {
			if sim, ok := e.similarity(ctx, queryVec, it.Content); ok {
				results = append(results, SimilarContent{
					Source:     "clipboard",
					Text:       it.Content,
					Similarity: sim,
					CreatedAt:  it.Time(),
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// similarity embeds candidate text and reports its remapped cosine
// similarity against queryVec when it clears the semantic threshold.
func (e *Engine) similarity(ctx context.Context, queryVec []float32, text string) (float64, bool) {
	vec, err := e.cache.Embed(ctx, text)
	if err != nil {
		return 0, false
	}
	sim := (cosineSimilarity(queryVec, vec) + 1) / 2
	if sim < semanticThreshold {
		return 0, false
	}
	return sim, true
}
