package main

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// testBinPath is set in TestMain — persists across all tests in this package.
var testBinPath string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "codegraph-cli-test-*")
	if err != nil {
		panic("create temp dir: " + err.Error())
	}

	binName := "codegraph"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(tmpDir, binName)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	cmd := exec.CommandContext(ctx, "go", "build", "-o", binPath, "./")
	cmd.Dir = "."
	if out, err := cmd.CombinedOutput(); err != nil {
		cancel()
		os.RemoveAll(tmpDir)
		os.Stderr.Write(out)
		panic("build test binary: " + err.Error())
	}
	cancel()
	testBinPath = binPath

	code := m.Run()
	os.RemoveAll(tmpDir)
	os.Exit(code)
}

func testCmd(t *testing.T, args ...string) *exec.Cmd {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return exec.CommandContext(ctx, testBinPath, args...)
}

func TestCLI_Version(t *testing.T) {
	out, err := testCmd(t, "--version").CombinedOutput()
	if err != nil {
		t.Fatalf("--version failed: %v\n%s", err, out)
	}
	output := strings.TrimSpace(string(out))
	if !strings.Contains(output, "codegraph") {
		t.Fatalf("unexpected --version output: %q", output)
	}
}

func TestCLI_Help(t *testing.T) {
	out, err := testCmd(t, "--help").CombinedOutput()
	if err != nil {
		t.Fatalf("--help failed: %v\n%s", err, out)
	}
	output := string(out)
	for _, want := range []string{"init", "index", "sync", "query", "impact", "context", "status", "serve"} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in --help output, got: %s", want, output)
		}
	}
}

func TestCLI_InitCreatesLayout(t *testing.T) {
	root := t.TempDir()
	cmd := testCmd(t, "init", "--root", root)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(root, ".codegraph")); err != nil {
		t.Fatalf("expected .codegraph directory after init: %v", err)
	}
	if !strings.Contains(string(out), "initialized codegraph project") {
		t.Fatalf("expected confirmation message, got: %s", out)
	}
}

func TestCLI_InitIsIdempotent(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 2; i++ {
		cmd := testCmd(t, "init", "--root", root)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("init round %d failed: %v\n%s", i, err, out)
		}
	}
}

func TestCLI_StatusOnFreshProject(t *testing.T) {
	root := t.TempDir()
	if out, err := testCmd(t, "init", "--root", root).CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	out, err := testCmd(t, "status", "--root", root).CombinedOutput()
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "files=0 nodes=0 edges=0") {
		t.Fatalf("expected an empty graph summary, got: %s", out)
	}
}

func TestCLI_IndexThenStatusReflectsFiles(t *testing.T) {
	root := t.TempDir()
	if out, err := testCmd(t, "init", "--root", root).CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}
	src := "package sample\n\nfunc Greet() string {\n\treturn \"hi\"\n}\n"
	if err := os.WriteFile(filepath.Join(root, "sample.go"), []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := testCmd(t, "index", "--root", root).CombinedOutput()
	if err != nil {
		t.Fatalf("index failed: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "successful=true") {
		t.Fatalf("expected a successful index run, got: %s", out)
	}

	out, err = testCmd(t, "status", "--root", root).CombinedOutput()
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if strings.Contains(string(out), "nodes=0") {
		t.Fatalf("expected indexed nodes after indexing a file, got: %s", out)
	}
}

func TestCLI_QueryRequiresIDOrName(t *testing.T) {
	root := t.TempDir()
	if out, err := testCmd(t, "init", "--root", root).CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	cmd := testCmd(t, "query", "callers", "--root", root)
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected an error when neither --id nor --name is given, got: %s", out)
	}
	if !strings.Contains(string(out), "--id or --name") {
		t.Fatalf("expected a helpful error, got: %s", out)
	}
}

func TestCLI_ImpactRequiresIDOrName(t *testing.T) {
	root := t.TempDir()
	if out, err := testCmd(t, "init", "--root", root).CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	cmd := testCmd(t, "impact", "--root", root)
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected an error when neither --id nor --name is given, got: %s", out)
	}
}

func TestCLI_ContextRequiresTask(t *testing.T) {
	root := t.TempDir()
	if out, err := testCmd(t, "init", "--root", root).CombinedOutput(); err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	cmd := testCmd(t, "context", "--root", root)
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected an error when --task is missing, got: %s", out)
	}
	if !strings.Contains(string(out), "--task is required") {
		t.Fatalf("expected the --task error, got: %s", out)
	}
}
