package embed

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"golang.org/x/time/rate"
)

// defaultEmbedRate caps how many backend inference calls may start per
// second. Native embedding inference is slow and the retrievers fan out
// concurrently, so an unbounded burst can starve the interactive path.
const defaultEmbedRate = 8

// Genkit bridges a Genkit ai.Embedder to the Provider interface.
//
// All calls pass through a rate limiter before reaching the backend;
// waiting respects context cancellation.
type Genkit struct {
	embedder ai.Embedder
	limiter  *rate.Limiter
}

// NewGenkit wraps an ai.Embedder as a Provider.
func NewGenkit(embedder ai.Embedder) *Genkit {
	return &Genkit{
		embedder: embedder,
		limiter:  rate.NewLimiter(rate.Limit(defaultEmbedRate), defaultEmbedRate),
	}
}

// Embed implements Provider.
func (g *Genkit) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for embed slot: %w", err)
	}

	resp, err := g.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("embed failed: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}
	return resp.Embeddings[0].Embedding, nil
}
