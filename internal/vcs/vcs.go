// Package vcs runs the small set of git subcommands the scanner and sync
// engine need to take their fast path over a working tree.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Timeout bounds every git invocation; a hung or oversized git process
// should never stall an index or sync run indefinitely.
const Timeout = 30 * time.Second

// ErrNotRepo means the directory is not inside a git working tree.
var ErrNotRepo = errors.New("vcs: not a git repository")

// ErrUnavailable means the git binary could not be found on PATH.
var ErrUnavailable = errors.New("vcs: git executable not found")

// run executes git with args in dir and returns its trimmed stdout.
func run(dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrUnavailable
		}
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("vcs: git %s timed out after %s", strings.Join(args, " "), Timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not a git repository") {
			return "", ErrNotRepo
		}
		return "", fmt.Errorf("vcs: git %s: %w: %s", strings.Join(args, " "), err, msg)
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// IsRepo reports whether dir is inside a git working tree.
func IsRepo(dir string) bool {
	_, err := run(dir, "rev-parse", "--is-inside-work-tree")
	return err == nil
}

// ListFiles returns every tracked and untracked-but-not-ignored file
// path, relative to dir, via the fast index-backed path instead of a
// filesystem walk.
func ListFiles(dir string) ([]string, error) {
	out, err := run(dir, "ls-files", "--cached", "--others", "--exclude-standard")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// StatusEntry is one line of `git status --porcelain=v1` output.
type StatusEntry struct {
	// Status is the two-letter porcelain status code (e.g. "M ", "??", "AM").
	Status string
	Path   string
	// OldPath is set for renames ("R100 old -> new").
	OldPath string
}

// Status returns the working tree's changes since the last commit,
// including untracked files, via `git status --porcelain=v1`.
func Status(dir string) ([]StatusEntry, error) {
	out, err := run(dir, "status", "--porcelain=v1", "--untracked-files=all")
	if err != nil {
		return nil, err
	}
	return parsePorcelainStatus(out), nil
}

func parsePorcelainStatus(out string) []StatusEntry {
	if out == "" {
		return nil
	}
	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		status := line[:2]
		rest := line[3:]
		if line[2] != ' ' {
			// A score-suffixed code such as "R100": the path starts after
			// the first space, and the status keeps only the letter.
			sp := strings.IndexByte(line, ' ')
			if sp < 0 {
				continue
			}
			status = line[:1] + " "
			rest = line[sp+1:]
		}

		entry := StatusEntry{Status: status}
		if idx := strings.Index(rest, " -> "); idx >= 0 {
			entry.OldPath = rest[:idx]
			entry.Path = rest[idx+4:]
		} else {
			entry.Path = rest
		}
		entries = append(entries, entry)
	}
	return entries
}

// HeadCommit returns the current HEAD commit hash, or "" if there is no
// commit yet (a freshly initialized repo).
func HeadCommit(dir string) string {
	out, err := run(dir, "rev-parse", "HEAD")
	if err != nil {
		return ""
	}
	return out
}
