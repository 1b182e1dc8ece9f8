package cmd

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/ollama"

	"github.com/koopa0/recall/internal/embed"
	"github.com/koopa0/recall/internal/rag"
	"github.com/koopa0/recall/internal/store/sqlite"
)

// openEngine wires the sqlite stores and the optional embedding backend
// into a retrieval engine. The caller must invoke the returned cleanup.
func openEngine(ctx context.Context) (*rag.Engine, *sqlite.DB, func(), error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening history database: %w", err)
	}

	var provider embed.Provider
	if cfg.EmbedderModel != "" {
		provider = ollamaProvider(ctx)
	}

	engine := rag.New(ctx,
		rag.Stores{
			Memory:    db.Memories(),
			Clipboard: db.Clipboard(),
			Activity:  db.Activity(),
			Search:    db.Searches(),
		},
		provider,
		logger,
		rag.WithMaxContextChars(cfg.MaxContextChars),
		rag.WithCacheCapacity(cfg.CacheCapacity),
	)

	cleanup := func() {
		if err := db.Close(); err != nil {
			logger.Warn("closing database failed", "error", err)
		}
	}
	return engine, db, cleanup, nil
}

// ollamaProvider registers the configured embedder against the local
// Ollama instance. If the server is down the engine's probe fails and it
// resolves into lexical-only mode; that is the supported degrade path,
// not an error here.
func ollamaProvider(ctx context.Context) embed.Provider {
	plugin := &ollama.Ollama{ServerAddress: cfg.OllamaHost}
	g := genkit.Init(ctx, genkit.WithPlugins(plugin))
	plugin.DefineEmbedder(g, cfg.OllamaHost, cfg.EmbedderModel, nil)
	return embed.NewGenkit(ollama.Embedder(g, cfg.OllamaHost))
}
