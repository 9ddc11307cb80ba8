// Package config loads the project-local JSON configuration that drives the
// scanner, indexer and query engine's embedding hints.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codegraph/codegraph/internal/errs"
)

// FileName is the configuration file's name inside the project's hidden
// directory.
const FileName = "config.json"

// CurrentVersion is the schema major version this build writes and expects.
const CurrentVersion = 1

// ChunkStrategy selects how the optional vector collaborator chunks code.
type ChunkStrategy string

const (
	ChunkStrategyAST    ChunkStrategy = "ast"
	ChunkStrategyHybrid ChunkStrategy = "hybrid"
)

// Config is the project configuration schema, persisted as
// "<project_root>/.codegraph/config.json".
type Config struct {
	Version        int           `json:"version"`
	// Include lists glob patterns to consider; an empty list means every
	// file is a candidate before Exclude is applied.
	Include        []string      `json:"include,omitempty"`
	Exclude        []string      `json:"exclude,omitempty"`
	Frameworks     []string      `json:"frameworks,omitempty"`
	EmbeddingModel string        `json:"embedding_model,omitempty"`
	ChunkStrategy  ChunkStrategy `json:"chunk_strategy,omitempty"`
	MaxFileSize    int64         `json:"max_file_size,omitempty"`
}

// DefaultMaxFileSize is applied when a config omits max_file_size.
const DefaultMaxFileSize = 1 << 20 // 1 MiB

// DefaultExclude is merged in ahead of user-configured exclude globs so a
// freshly initialized project ignores the obvious noise without the user
// having to spell it out.
var DefaultExclude = []string{
	".git/**", "node_modules/**", "vendor/**", ".codegraph/**",
	"dist/**", "build/**", "*.min.js",
}

// Default returns the configuration written by `codegraph init`.
func Default() *Config {
	return &Config{
		Version:       CurrentVersion,
		Exclude:       append([]string{}, DefaultExclude...),
		ChunkStrategy: ChunkStrategyAST,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// Path returns the configuration file path for a project rooted at dir.
func Path(dir string) string {
	return filepath.Join(dir, ".codegraph", FileName)
}

// Load reads and validates the configuration at "<dir>/.codegraph/config.json".
// A missing file is not an error: it returns Default().
func Load(dir string) (*Config, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, &errs.ConfigError{Err: fmt.Errorf("read %s: %w", path, err)}
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, &errs.ConfigError{Err: fmt.Errorf("parse %s: %w", path, err)}
	}
	if err := cfg.applyDefaults().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to "<dir>/.codegraph/config.json", creating the hidden
// directory if necessary.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Join(dir, ".codegraph"), 0o755); err != nil {
		return &errs.ConfigError{Err: fmt.Errorf("mkdir .codegraph: %w", err)}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &errs.ConfigError{Err: fmt.Errorf("marshal config: %w", err)}
	}
	data = append(data, '\n')
	if err := os.WriteFile(Path(dir), data, 0o644); err != nil {
		return &errs.ConfigError{Err: fmt.Errorf("write %s: %w", Path(dir), err)}
	}
	return nil
}

// applyDefaults fills in zero-valued optional fields in place and returns
// cfg for chaining.
func (c *Config) applyDefaults() *Config {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
	if c.ChunkStrategy == "" {
		c.ChunkStrategy = ChunkStrategyAST
	}
	return c
}

// Validate checks that every recognized field holds a legal value.
func (c *Config) Validate() error {
	if c.Version > CurrentVersion {
		return &errs.ConfigError{Field: "version", Err: fmt.Errorf("unsupported config version %d (max %d)", c.Version, CurrentVersion)}
	}
	if c.MaxFileSize < 0 {
		return &errs.ConfigError{Field: "max_file_size", Err: fmt.Errorf("must be non-negative, got %d", c.MaxFileSize)}
	}
	switch c.ChunkStrategy {
	case "", ChunkStrategyAST, ChunkStrategyHybrid:
	default:
		return &errs.ConfigError{Field: "chunk_strategy", Err: fmt.Errorf("must be %q or %q, got %q", ChunkStrategyAST, ChunkStrategyHybrid, c.ChunkStrategy)}
	}
	for _, g := range c.Include {
		if _, err := filepath.Match(g, "probe"); err != nil {
			return &errs.ConfigError{Field: "include", Err: fmt.Errorf("bad glob %q: %w", g, err)}
		}
	}
	for _, g := range c.Exclude {
		if _, err := filepath.Match(g, "probe"); err != nil {
			return &errs.ConfigError{Field: "exclude", Err: fmt.Errorf("bad glob %q: %w", g, err)}
		}
	}
	return nil
}

// AllExclude returns the configured exclude globs merged with DefaultExclude,
// deduplicated, so callers never need to remember to merge them manually.
func (c *Config) AllExclude() []string {
	seen := make(map[string]bool, len(DefaultExclude)+len(c.Exclude))
	out := make([]string, 0, len(DefaultExclude)+len(c.Exclude))
	for _, g := range append(append([]string{}, DefaultExclude...), c.Exclude...) {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}
