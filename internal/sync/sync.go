// Package sync detects filesystem divergence from the indexed state and
// drives the corrective re-indexing: a VCS status fast path when the
// project is under git, a full rescan fallback otherwise.
package sync

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/indexer"
	"github.com/codegraph/codegraph/internal/scanner"
	"github.com/codegraph/codegraph/internal/store"
	"github.com/codegraph/codegraph/internal/vcs"
)

// Result reports what one Sync call did, per spec.md §4.6.
type Result struct {
	FilesChecked  int
	FilesAdded    int
	FilesModified int
	FilesRemoved  int
	NodesUpdated  int
	Duration      time.Duration
	ChangedPaths  []string
}

// Sync reconciles the store against the current state of root. After it
// returns, every indexable file on disk has a matching file record and
// every file record has a file on disk with the same content hash.
func Sync(ctx context.Context, st *store.Store, root string, cfg *config.Config, progress indexer.ProgressFunc) (*Result, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if vcs.IsRepo(root) {
		res, err := syncVCS(ctx, st, root, cfg, progress)
		if err == nil {
			return res, nil
		}
	}
	return syncFullScan(ctx, st, root, cfg, progress)
}

// syncVCS classifies `git status --porcelain` entries into added/modified/
// removed sets, grounded on the teacher's diff name-status parser
// (internal/pipeline/gitdiff.go's ParseNameStatusOutput) generalized from
// diff status letters to worktree porcelain codes.
func syncVCS(ctx context.Context, st *store.Store, root string, cfg *config.Config, progress indexer.ProgressFunc) (*Result, error) {
	start := time.Now()
	entries, err := vcs.Status(root)
	if err != nil {
		return nil, err
	}

	var added, modified, removed []string
	for _, e := range entries {
		if e.OldPath != "" {
			removed = append(removed, e.OldPath)
		}
		switch classify(e.Status) {
		case statusDeleted:
			removed = append(removed, e.Path)
		case statusAdded:
			added = append(added, e.Path)
		default:
			modified = append(modified, e.Path)
		}
	}

	res := &Result{}
	for _, path := range removed {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, nil
		}
		if removeFile(st, path) {
			res.FilesRemoved++
			res.ChangedPaths = append(res.ChangedPaths, path)
		}
	}

	toIndex := append(append([]string{}, added...), modified...)
	res.FilesChecked = len(toIndex) + len(removed)
	if len(toIndex) > 0 {
		idxRes, err := indexer.IndexFiles(ctx, st, root, toIndex, cfg, progress)
		if err != nil {
			return nil, fmt.Errorf("sync: index changed files: %w", err)
		}
		res.NodesUpdated += idxRes.NodesWritten
		res.ChangedPaths = append(res.ChangedPaths, toIndex...)
	}
	res.FilesAdded = len(added)
	res.FilesModified = len(modified)
	res.Duration = time.Since(start)
	return res, nil
}

// syncFullScan is the VCS-free fallback: scan for the current indexable
// set, diff it against the store's file records by path and content hash.
func syncFullScan(ctx context.Context, st *store.Store, root string, cfg *config.Config, progress indexer.ProgressFunc) (*Result, error) {
	start := time.Now()
	res := &Result{}

	current, err := scanner.Scan(ctx, root, cfg)
	if err != nil {
		return nil, fmt.Errorf("sync: scan: %w", err)
	}
	onDisk := make(map[string]scanner.FileInfo, len(current))
	for _, f := range current {
		onDisk[f.RelPath] = f
	}

	records, err := st.GetAllFiles()
	if err != nil {
		return nil, &errs.DatabaseError{Op: "GetAllFiles", Err: err}
	}
	indexedPaths := make(map[string]*graphmodel.FileRecord, len(records))
	for _, r := range records {
		indexedPaths[r.Path] = r
	}

	for path := range indexedPaths {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, nil
		}
		if _, ok := onDisk[path]; !ok {
			if removeFile(st, path) {
				res.FilesRemoved++
				res.ChangedPaths = append(res.ChangedPaths, path)
			}
		}
	}

	var addedPaths, existingPaths []string
	for path := range onDisk {
		if _, ok := indexedPaths[path]; ok {
			existingPaths = append(existingPaths, path)
		} else {
			addedPaths = append(addedPaths, path)
		}
	}

	res.FilesChecked = len(onDisk) + len(indexedPaths)
	toIndex := append(append([]string{}, addedPaths...), existingPaths...)
	if len(toIndex) > 0 {
		idxRes, err := indexer.IndexFiles(ctx, st, root, toIndex, cfg, progress)
		if err != nil {
			return nil, fmt.Errorf("sync: index files: %w", err)
		}
		res.NodesUpdated += idxRes.NodesWritten
		res.FilesAdded = len(addedPaths)
		if modified := idxRes.FilesProcessed - len(addedPaths); modified > 0 {
			res.FilesModified = modified
		}
		res.ChangedPaths = append(res.ChangedPaths, toIndex...)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// removeFile deletes a file record (and its cascaded nodes/edges/refs) if
// it exists, reporting whether a deletion actually happened.
func removeFile(st *store.Store, path string) bool {
	rec, err := st.GetFile(path)
	if err != nil || rec == nil {
		return false
	}
	if err := st.DeleteFile(path); err != nil {
		return false
	}
	return true
}

type statusClass int

const (
	statusModified statusClass = iota
	statusAdded
	statusDeleted
)

// classify maps a two-letter `git status --porcelain=v1` code to one of
// the three sets spec.md §4.6 names. Ambiguous/rare codes (copies,
// conflicts) default to modified, the safe "just re-index it" choice.
func classify(code string) statusClass {
	if code == "??" {
		return statusAdded
	}
	if strings.ContainsRune(code, 'D') {
		return statusDeleted
	}
	if strings.ContainsRune(code, 'A') {
		return statusAdded
	}
	return statusModified
}
