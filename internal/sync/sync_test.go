package sync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/indexer"
	"github.com/codegraph/codegraph/internal/store"
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

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSyncFullScanDetectsAddedModifiedRemoved(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "keep.go")
	stale := filepath.Join(dir, "stale.go")
	writeFile(t, keep, "package main\n\nfunc A() {}\n")
	writeFile(t, stale, "package main\n\nfunc Z() {}\n")

	st := openTestStore(t)
	ctx := context.Background()
	if _, err := indexer.IndexAll(ctx, st, dir, config.Default(), nil); err != nil {
		t.Fatalf("seed IndexAll: %v", err)
	}

	// Modify keep.go, remove stale.go, add new.go.
	writeFile(t, keep, "package main\n\nfunc A() {}\n\nfunc B() {}\n")
	if err := os.Remove(stale); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "new.go"), "package main\n\nfunc N() {}\n")

	res, err := Sync(ctx, st, dir, config.Default(), nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.FilesRemoved != 1 {
		t.Errorf("expected 1 file removed, got %+v", res)
	}
	if res.FilesAdded != 1 {
		t.Errorf("expected 1 file added, got %+v", res)
	}
	if res.FilesModified != 1 {
		t.Errorf("expected 1 file modified, got %+v", res)
	}

	if rec, err := st.GetFile("stale.go"); err != nil || rec != nil {
		t.Errorf("expected stale.go record to be gone, got %+v (err %v)", rec, err)
	}
	if rec, err := st.GetFile("new.go"); err != nil || rec == nil {
		t.Errorf("expected new.go to be indexed, got %+v (err %v)", rec, err)
	}
}

func TestSyncFullScanIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	st := openTestStore(t)
	ctx := context.Background()
	if _, err := indexer.IndexAll(ctx, st, dir, config.Default(), nil); err != nil {
		t.Fatalf("seed IndexAll: %v", err)
	}

	res, err := Sync(ctx, st, dir, config.Default(), nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if res.FilesAdded != 0 || res.FilesModified != 0 || res.FilesRemoved != 0 {
		t.Errorf("expected a no-op sync on an unchanged tree, got %+v", res)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		code string
		want statusClass
	}{
		{"??", statusAdded},
		{"A ", statusAdded},
		{" D", statusDeleted},
		{"D ", statusDeleted},
		{" M", statusModified},
		{"M ", statusModified},
		{"MM", statusModified},
	}
	for _, tt := range tests {
		if got := classify(tt.code); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
