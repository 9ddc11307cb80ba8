package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/query"
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

func TestIndexAllWritesNodesAndEdges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nfunc Greet() string {\n\treturn \"hi\"\n}\n")

	st := openTestStore(t)
	var phases []Phase
	res, err := IndexAll(context.Background(), st, dir, config.Default(), func(p Phase, cur, total int, f string) {
		phases = append(phases, p)
	})
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if !res.Successful {
		t.Fatalf("expected successful result, got %+v", res)
	}
	if res.FilesProcessed != 1 {
		t.Fatalf("expected 1 file processed, got %+v", res)
	}
	if res.NodesWritten == 0 {
		t.Fatalf("expected nodes written, got %+v", res)
	}

	nodes, err := st.GetNodesByFile("main.go")
	if err != nil {
		t.Fatalf("GetNodesByFile: %v", err)
	}
	if len(nodes) == 0 {
		t.Fatal("expected at least one node stored for main.go")
	}

	seen := map[Phase]bool{}
	for _, p := range phases {
		seen[p] = true
	}
	for _, want := range []Phase{PhaseScanning, PhaseParsing, PhaseStoring, PhaseResolving} {
		if !seen[want] {
			t.Errorf("expected phase %q to be reported", want)
		}
	}
}

func TestIndexAllSkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	st := openTestStore(t)
	ctx := context.Background()
	if _, err := IndexAll(ctx, st, dir, config.Default(), nil); err != nil {
		t.Fatalf("first IndexAll: %v", err)
	}

	res, err := IndexAll(ctx, st, dir, config.Default(), nil)
	if err != nil {
		t.Fatalf("second IndexAll: %v", err)
	}
	if res.FilesSkipped != 1 || res.FilesProcessed != 0 {
		t.Errorf("expected the unchanged file to be skipped, got %+v", res)
	}
}

func TestIndexAllReindexesChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	writeFile(t, path, "package main\n\nfunc A() {}\n")

	st := openTestStore(t)
	ctx := context.Background()
	if _, err := IndexAll(ctx, st, dir, config.Default(), nil); err != nil {
		t.Fatalf("first IndexAll: %v", err)
	}

	writeFile(t, path, "package main\n\nfunc B() {}\n")
	res, err := IndexAll(ctx, st, dir, config.Default(), nil)
	if err != nil {
		t.Fatalf("second IndexAll: %v", err)
	}
	if res.FilesProcessed != 1 {
		t.Errorf("expected the changed file to be reprocessed, got %+v", res)
	}

	nodes, err := st.GetNodesByFile("main.go")
	if err != nil {
		t.Fatalf("GetNodesByFile: %v", err)
	}
	var sawB, sawA bool
	for _, n := range nodes {
		if n.Name == "B" {
			sawB = true
		}
		if n.Name == "A" {
			sawA = true
		}
	}
	if !sawB {
		t.Error("expected node B after reindex")
	}
	if sawA {
		t.Error("expected stale node A to be gone after reindex")
	}
}

func TestIndexFilesRejectsPathEscapingRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	st := openTestStore(t)
	res, err := IndexFiles(context.Background(), st, dir, []string{"../outside.go"}, config.Default(), nil)
	if err != nil {
		t.Fatalf("IndexFiles: %v", err)
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected an error for a path escaping the project root")
	}
	if res.FilesProcessed != 0 {
		t.Errorf("expected no files processed, got %+v", res)
	}
}

func TestIndexAllResolvesCrossFileCalls(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "callee.go"), "package main\n\nfunc Callee() string {\n\treturn \"hi\"\n}\n")
	writeFile(t, filepath.Join(dir, "caller.go"), "package main\n\nfunc Caller() string {\n\treturn Callee()\n}\n")

	st := openTestStore(t)
	res, err := IndexAll(context.Background(), st, dir, config.Default(), nil)
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if !res.Successful {
		t.Fatalf("expected successful result, got %+v", res)
	}
	if res.EdgesWritten == 0 {
		t.Fatalf("expected the resolution pass to write at least one edge, got %+v", res)
	}

	callee, err := st.GetNodeByQualifiedName("callee.go::Callee")
	if err != nil || callee == nil {
		t.Fatalf("expected a Callee node, got %v (err %v)", callee, err)
	}
	caller, err := st.GetNodeByQualifiedName("caller.go::Caller")
	if err != nil || caller == nil {
		t.Fatalf("expected a Caller node, got %v (err %v)", caller, err)
	}

	eng := query.New(st)
	callers, err := eng.GetCallers(callee.ID)
	if err != nil {
		t.Fatalf("GetCallers: %v", err)
	}
	if len(callers) != 1 || callers[0].ID != caller.ID {
		t.Fatalf("expected Caller to be the sole caller of Callee, got %+v", callers)
	}

	callees, err := eng.GetCallees(caller.ID)
	if err != nil {
		t.Fatalf("GetCallees: %v", err)
	}
	if len(callees) != 1 || callees[0].ID != callee.ID {
		t.Fatalf("expected Callee to be the sole callee of Caller, got %+v", callees)
	}
}

func TestIndexAllCancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n")

	st := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := IndexAll(ctx, st, dir, config.Default(), nil)
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if res.Successful {
		t.Error("expected a cancelled run to be flagged unsuccessful")
	}
}
