package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 3500, cfg.MaxContextChars)
	assert.Equal(t, 500, cfg.CacheCapacity)
	assert.Empty(t, cfg.EmbedderModel)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaHost)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.LogJSON)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/test-recall.db
max_context_chars: 2000
embedder_model: nomic-embed-text
debug: true
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test-recall.db", cfg.DBPath)
	assert.Equal(t, 2000, cfg.MaxContextChars)
	assert.Equal(t, "nomic-embed-text", cfg.EmbedderModel)
	assert.True(t, cfg.Debug)
	// Unset keys keep their defaults.
	assert.Equal(t, 500, cfg.CacheCapacity)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicitly named config file must exist")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RECALL_MAX_CONTEXT_CHARS", "4200")
	t.Setenv("RECALL_DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4200, cfg.MaxContextChars)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DBPath:          "recall.db",
		MaxContextChars: 3500,
		CacheCapacity:   500,
		RetentionDays:   30,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }, ErrInvalidDBPath},
		{"context budget too small", func(c *Config) { c.MaxContextChars = 100 }, ErrInvalidMaxContextChars},
		{"context budget too large", func(c *Config) { c.MaxContextChars = 50000 }, ErrInvalidMaxContextChars},
		{"cache too small", func(c *Config) { c.CacheCapacity = 1 }, ErrInvalidCacheCapacity},
		{"cache too large", func(c *Config) { c.CacheCapacity = 100000 }, ErrInvalidCacheCapacity},
		{"negative retention", func(c *Config) { c.RetentionDays = -1 }, ErrInvalidRetentionDays},
		{"retention too long", func(c *Config) { c.RetentionDays = 1000 }, ErrInvalidRetentionDays},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateZeroRetentionDisablesPruning(t *testing.T) {
	cfg := Config{DBPath: "recall.db", MaxContextChars: 3500, CacheCapacity: 500}
	assert.NoError(t, cfg.Validate())
}
