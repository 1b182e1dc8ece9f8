package rag

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"
)

// query bundles the per-call inputs shared by every scoring computation.
type query struct {
	raw       string
	lower     string
	keywords  []string
	embedding []float32 // nil in lexical-only mode
}

func newQuery(raw string, keywords []string, embedding []float32) query {
	return query{
		raw:       raw,
		lower:     strings.ToLower(raw),
		keywords:  keywords,
		embedding: embedding,
	}
}

// threshold returns the admission threshold for this query's mode.
// Semantic scores live on a wider scale, so lexical-only mode admits
// lower absolute values.
func (q query) threshold() float64 {
	if q.embedding != nil {
		return semanticThreshold
	}
	return lexicalThreshold
}

// scorer computes [0,1] relevance scores for candidate texts against a
// query, combining semantic similarity (when a query embedding exists and
// the candidate embeds successfully) with a TF-IDF-like lexical component.
type scorer struct {
	cache  *EmbeddingCache
	logger *slog.Logger
}

// score returns the combined relevance score and whether a semantic
// component contributed. A failed candidate embedding degrades this one
// computation to lexical-only; it is never an error.
func (s *scorer) score(ctx context.Context, q query, text string, staticBoost, recencyBoost float64) (float64, bool) {
	var total float64
	usedSemantic := false

	if q.embedding != nil && s.cache != nil {
		if vec, err := s.cache.Embed(ctx, text); err == nil {
			sim := cosineSimilarity(q.embedding, vec)
			// Remap [-1,1] to [0,1].
			total += (sim + 1) / 2 * semanticWeight
			usedSemantic = true
		} else {
			s.logger.Debug("candidate embedding failed, lexical fallback", "error", err)
		}
	}

	lexical := s.lexicalScore(q, text)
	if usedSemantic {
		total += lexical * lexicalDampedWeight
	} else {
		total += lexical
	}

	total += staticBoost + recencyBoost

	return clamp01(total), usedSemantic
}

// lexicalScore is the keyword component: a full-query substring bonus,
// a term-frequency sum weighted by keyword length as an inverse-document-
// frequency proxy, and a keyword-coverage bonus.
func (s *scorer) lexicalScore(q query, text string) float64 {
	textLower := strings.ToLower(text)

	var score float64
	if q.lower != "" && strings.Contains(textLower, q.lower) {
		score += substringBonus
	}

	if len(q.keywords) == 0 {
		return score
	}

	tokens := tokenize(textLower)
	if len(tokens) == 0 {
		return score
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	matched := 0
	for _, kw := range q.keywords {
		tf := counts[kw]
		if tf == 0 {
			continue
		}
		matched++
		idf := math.Log(1000 / float64(1+len(kw)))
		score += float64(tf) / float64(len(tokens)) * idf * keywordWeight
	}

	score += float64(matched) / float64(len(q.keywords)) * coverageWeight

	return score
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector is empty, zero, or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Recency boost tables. Buckets decay with item age; exact constants
// differ per source. Memory items carry no recency boost at all, their
// static importance boost stands in for it.

func clipboardRecency(age time.Duration) float64 {
	switch {
	case age < time.Hour:
		return 0.20
	case age < 4*time.Hour:
		return 0.15
	case age < 24*time.Hour:
		return 0.10
	case age < 7*24*time.Hour:
		return 0.05
	}
	return 0
}

func activityRecency(age time.Duration) float64 {
	switch {
	case age < time.Hour:
		return 0.15
	case age < 4*time.Hour:
		return 0.12
	case age < 24*time.Hour:
		return 0.08
	case age < 7*24*time.Hour:
		return 0.04
	}
	return 0
}

func noRecency(time.Duration) float64 { return 0 }
