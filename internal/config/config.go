// Package config loads application configuration with multi-source
// priority: environment variables override the config file
// (~/.recall/config.yaml), which overrides built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel errors for validation failures; callers branch with errors.Is.
var (
	// ErrInvalidMaxContextChars indicates the context budget is out of range.
	ErrInvalidMaxContextChars = errors.New("invalid max context chars")

	// ErrInvalidCacheCapacity indicates the embedding cache capacity is out of range.
	ErrInvalidCacheCapacity = errors.New("invalid cache capacity")

	// ErrInvalidDBPath indicates the database path is empty.
	ErrInvalidDBPath = errors.New("invalid database path")

	// ErrInvalidRetentionDays indicates the activity retention period is out of range.
	ErrInvalidRetentionDays = errors.New("invalid retention days")
)

// Bounds for validated settings.
const (
	MinContextChars = 500
	MaxContextChars = 32000

	MinCacheCapacity = 16
	MaxCacheCapacity = 10000

	MaxRetentionDays = 365
)

// Config stores application configuration.
type Config struct {
	// DBPath is the SQLite database holding the four history sources.
	DBPath string `mapstructure:"db_path"`

	// MaxContextChars is the character budget for assembled context.
	MaxContextChars int `mapstructure:"max_context_chars"`

	// CacheCapacity bounds the embedding cache entry count.
	CacheCapacity int `mapstructure:"cache_capacity"`

	// EmbedderModel names the embedding model served by the local
	// Ollama instance; empty disables semantic scoring and the engine
	// runs lexical-only.
	EmbedderModel string `mapstructure:"embedder_model"`

	// OllamaHost is the local inference server address.
	OllamaHost string `mapstructure:"ollama_host"`

	// RetentionDays is how long activity snapshots are kept before
	// pruning. Zero disables pruning.
	RetentionDays int `mapstructure:"retention_days"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`

	// LogJSON switches log output to JSON.
	LogJSON bool `mapstructure:"log_json"`
}

// Load reads configuration from file and environment.
// An explicit path overrides the default search location; a missing
// config file is not an error, defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("max_context_chars", 3500)
	v.SetDefault("cache_capacity", 500)
	v.SetDefault("embedder_model", "")
	v.SetDefault("ollama_host", "http://localhost:11434")
	v.SetDefault("retention_days", 30)
	v.SetDefault("debug", false)
	v.SetDefault("log_json", false)

	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".recall"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing default config file is fine; defaults apply. An
		// explicitly named file that cannot be read is an error.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks all settings against their allowed ranges.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidDBPath)
	}
	if c.MaxContextChars < MinContextChars || c.MaxContextChars > MaxContextChars {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidMaxContextChars, MinContextChars, MaxContextChars, c.MaxContextChars)
	}
	if c.CacheCapacity < MinCacheCapacity || c.CacheCapacity > MaxCacheCapacity {
		return fmt.Errorf("%w: must be between %d and %d, got %d",
			ErrInvalidCacheCapacity, MinCacheCapacity, MaxCacheCapacity, c.CacheCapacity)
	}
	if c.RetentionDays < 0 || c.RetentionDays > MaxRetentionDays {
		return fmt.Errorf("%w: must be between 0 and %d, got %d",
			ErrInvalidRetentionDays, MaxRetentionDays, c.RetentionDays)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "recall.db"
	}
	return filepath.Join(home, ".recall", "recall.db")
}
