package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codegraph/codegraph/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanWalkBasic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "app.py"), "def main(): pass\n")
	writeFile(t, filepath.Join(dir, "README.md"), "# hi\n")

	files, err := Scan(context.Background(), dir, config.Default())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 indexable files, got %d: %+v", len(files), files)
	}
	for _, f := range files {
		if f.Path == "" || f.RelPath == "" || f.Language == "" {
			t.Errorf("incomplete FileInfo: %+v", f)
		}
	}
}

func TestScanWalkRespectsDefaultExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")
	writeFile(t, filepath.Join(dir, "node_modules", "dep", "index.js"), "module.exports = {}\n")

	files, err := Scan(context.Background(), dir, config.Default())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, f := range files {
		if f.RelPath == "node_modules/dep/index.js" {
			t.Fatalf("expected node_modules to be excluded, got %+v", files)
		}
	}
}

func TestScanWalkHonorsMarkerFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.go"), "package keep\n")
	writeFile(t, filepath.Join(dir, "skip", "skip.go"), "package skip\n")
	writeFile(t, filepath.Join(dir, "skip", MarkerFile), "---\nreason: generated\n---\n")

	files, err := Scan(context.Background(), dir, config.Default())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.go" {
		t.Fatalf("expected only keep.go, got %+v", files)
	}
}

func TestScanWalkAppliesMaxFileSize(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big.go"), "package big\n// "+string(make([]byte, 100))+"\n")

	cfg := config.Default()
	cfg.MaxFileSize = 10
	files, err := Scan(context.Background(), dir, cfg)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected oversized file to be dropped, got %+v", files)
	}
}

func TestScanWalkBreaksSymlinkCycle(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "a.go"), "package sub\n")
	if err := os.Symlink(dir, filepath.Join(sub, "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := Scan(context.Background(), dir, config.Default())
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Scan did not terminate, symlink cycle not broken")
	}
}

func TestScanWalkCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, dir, config.Default())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
