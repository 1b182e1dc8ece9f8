// Package embed abstracts the native embedding backend behind a small
// provider interface.
//
// The engine treats embedding as an optional capability: a provider may be
// absent entirely (nil), or present but failing. Both are expected modes and
// callers degrade to lexical scoring rather than surfacing an error.
package embed

import "context"

// Provider converts text into a fixed-dimension vector.
//
// Implementations must be safe for concurrent use. A returned error means
// "no embedding for this text" and is never fatal to the caller.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Func adapts a plain function to the Provider interface.
// Useful for tests and one-off backends.
type Func func(ctx context.Context, text string) ([]float32, error)

// Embed implements Provider.
func (f Func) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}
