package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/codegraph/codegraph/internal/errs"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want %d", cfg.MaxFileSize, DefaultMaxFileSize)
	}
	if cfg.ChunkStrategy != ChunkStrategyAST {
		t.Errorf("ChunkStrategy = %q, want %q", cfg.ChunkStrategy, ChunkStrategyAST)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		Version:        CurrentVersion,
		Include:        []string{"src/**"},
		Exclude:        []string{"src/gen/**"},
		Frameworks:     []string{"django"},
		EmbeddingModel: "text-embedding-3-small",
		ChunkStrategy:  ChunkStrategyHybrid,
		MaxFileSize:    2048,
	}
	if err := Save(dir, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("expected config file on disk: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.EmbeddingModel != cfg.EmbeddingModel || got.ChunkStrategy != cfg.ChunkStrategy || got.MaxFileSize != cfg.MaxFileSize {
		t.Errorf("Load() = %+v, want %+v", got, cfg)
	}
}

func TestLoadInvalidJSONReturnsConfigError(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".codegraph"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	var cfgErr *errs.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Load() err = %v, want *errs.ConfigError", err)
	}
}

func TestValidateRejectsUnknownChunkStrategy(t *testing.T) {
	cfg := Default()
	cfg.ChunkStrategy = "embeddings-only"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for unknown chunk_strategy")
	}
}

func TestValidateRejectsFutureVersion(t *testing.T) {
	cfg := Default()
	cfg.Version = CurrentVersion + 1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for unsupported version")
	}
}

func TestAllExcludeMergesDefaultsAndDedupes(t *testing.T) {
	cfg := Default()
	cfg.Exclude = append(cfg.Exclude, "custom/**", DefaultExclude[0])
	all := cfg.AllExclude()

	seen := map[string]int{}
	for _, g := range all {
		seen[g]++
	}
	if seen[DefaultExclude[0]] != 1 {
		t.Errorf("expected %q exactly once, got %d", DefaultExclude[0], seen[DefaultExclude[0]])
	}
	if seen["custom/**"] != 1 {
		t.Errorf("expected custom/** present, got %d", seen["custom/**"])
	}
}
