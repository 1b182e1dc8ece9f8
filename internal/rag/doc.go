// Package rag implements the on-device retrieval engine that supplies a
// local language model with relevant historical context: remembered
// facts, clipboard snippets, screen-activity snapshots, and past search
// queries.
//
// # Pipeline
//
// A query flows through the engine as:
//
//	query
//	  |
//	  v
//	ExtractKeywords + optional query embedding
//	  |
//	  v
//	four source retrievers (parallel fan-out)
//	  |  pool -> score -> filter -> rank -> cap
//	  v
//	context assembly (character-budgeted, priority-ordered)
//	  |
//	  v
//	Context{ranked lists, ContextString}
//
// # Scoring
//
// Each candidate gets a [0,1] score combining an optional semantic
// component (cosine similarity of embeddings, weighted 0.8), a lexical
// TF-IDF-like component (full-query substring bonus, term-frequency sums
// with keyword length as an IDF proxy, keyword coverage), a per-source
// static boost (memory importance, pinned clipboard), and a bucketed
// recency boost. When the semantic component is present the lexical
// subtotal is damped to 0.2; without it the lexical subtotal stands
// alone and the admission threshold drops from 0.3 to 0.1 to match the
// compressed scale.
//
// # Semantic availability
//
// The embedding backend is probed exactly once at construction and the
// engine resolves into a sticky semantic or lexical-only state. Transient
// embedding failures after a successful probe degrade single scoring
// computations, never the engine state; Reinitialize re-probes on demand.
//
// # Failure isolation
//
// Source stores are external collaborators and may fail independently. A
// failing store contributes an empty ranked list and a log line; no store
// or embedding failure ever aborts a retrieval call. The only error
// RetrieveContext returns is context cancellation.
//
// # Concurrency
//
// The four retrievers run as an errgroup fan-out. The embedding cache is
// the engine's only mutable state; its lock is held for map bookkeeping
// only, never across a backend inference call. Callers own timeouts:
// wrap calls in a context deadline, nothing here retries.
package rag
