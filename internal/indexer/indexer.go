// Package indexer orchestrates the scan -> read -> extract -> store pipeline
// that turns a project's files into graph nodes, edges, and unresolved
// references.
package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/extractor"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/scanner"
	"github.com/codegraph/codegraph/internal/store"
)

// BatchSize is the number of files read in parallel before their
// extraction results are written sequentially, matching the I/O-bound
// batching the teacher's pipeline uses for its own parallel read stage.
const BatchSize = 10

// Phase names a stage of one indexing pass, reported to a ProgressFunc.
type Phase string

const (
	PhaseScanning  Phase = "scanning"
	PhaseParsing   Phase = "parsing"
	PhaseStoring   Phase = "storing"
	PhaseResolving Phase = "resolving"
)

// ProgressFunc receives one call per phase transition (or per file within
// a phase); current_file is empty for phase-level calls like scanning.
type ProgressFunc func(phase Phase, current, total int, currentFile string)

// Result summarizes one IndexAll/IndexFiles run.
type Result struct {
	FilesProcessed int
	FilesSkipped   int
	NodesWritten   int
	EdgesWritten   int
	RefsWritten    int
	Errors         []error
	Successful     bool
	Duration       time.Duration
}

// IndexAll scans the project from scratch and indexes every file the
// scanner selects.
func IndexAll(ctx context.Context, st *store.Store, root string, cfg *config.Config, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(Phase, int, int, string) {}
	}
	start := time.Now()
	progress(PhaseScanning, 0, 0, "")
	files, err := scanner.Scan(ctx, root, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return &Result{Duration: time.Since(start)}, nil
		}
		return nil, fmt.Errorf("indexer: scan: %w", err)
	}
	return indexFiles(ctx, st, root, files, progress)
}

// IndexFiles indexes exactly the given project-relative paths, validating
// each against the project root before anything is read.
func IndexFiles(ctx context.Context, st *store.Store, root string, relPaths []string, cfg *config.Config, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(Phase, int, int, string) {}
	}
	if cfg == nil {
		cfg = config.Default()
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	progress(PhaseScanning, 0, 0, "")
	var files []scanner.FileInfo
	res := &Result{}
	for _, rel := range relPaths {
		fi, err := resolveFileInfo(root, rel, cfg)
		if err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		files = append(files, fi)
	}

	full, err := indexFiles(ctx, st, root, files, progress)
	if err != nil {
		return nil, err
	}
	full.Errors = append(res.Errors, full.Errors...)
	return full, nil
}

// escapesRoot reports whether abs, once resolved relative to root, climbs
// above it (via "..", a symlink, or an identical path comparison failure).
func escapesRoot(root, abs string) bool {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	return rel == ".." || strings.HasPrefix(rel, "../")
}

// resolveFileInfo validates that rel stays within root (lexically and
// after symlink resolution), then stats it and checks size/language.
func resolveFileInfo(root, rel string, cfg *config.Config) (scanner.FileInfo, error) {
	abs := filepath.Join(root, rel)
	if escapesRoot(root, abs) {
		return scanner.FileInfo{}, &errs.FileError{Path: rel, Err: fmt.Errorf("escapes project root")}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return scanner.FileInfo{}, &errs.FileError{Path: rel, Err: err}
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		realRoot, _ := filepath.EvalSymlinks(root)
		if escapesRoot(realRoot, real) {
			return scanner.FileInfo{}, &errs.FileError{Path: rel, Err: fmt.Errorf("symlink escapes project root")}
		}
	}

	l, ok := lang.LanguageForExtension(filepath.Ext(rel))
	if !ok {
		return scanner.FileInfo{}, &errs.FileError{Path: rel, Err: fmt.Errorf("unsupported language")}
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxFileSize
	}
	if info.Size() > maxSize {
		return scanner.FileInfo{}, &errs.FileError{Path: rel, Err: fmt.Errorf("file exceeds max_file_size (%d > %d)", info.Size(), maxSize)}
	}

	return scanner.FileInfo{
		Path:     abs,
		RelPath:  filepath.ToSlash(rel),
		Language: l,
		Size:     info.Size(),
	}, nil
}

// indexFiles drives the batched parallel-read / sequential-store loop
// shared by IndexAll and IndexFiles.
func indexFiles(ctx context.Context, st *store.Store, root string, files []scanner.FileInfo, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	res := &Result{}
	total := len(files)

	for i := 0; i < total; i += BatchSize {
		if err := ctx.Err(); err != nil {
			res.Duration = time.Since(start)
			return res, nil
		}

		end := i + BatchSize
		if end > total {
			end = total
		}
		batch := files[i:end]
		contents := make([][]byte, len(batch))

		g, gctx := errgroup.WithContext(ctx)
		for j, f := range batch {
			j, f := j, f
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				data, err := os.ReadFile(f.Path)
				if err != nil {
					res.Errors = append(res.Errors, &errs.FileError{Path: f.RelPath, Err: err})
					return nil
				}
				contents[j] = data
				return nil
			})
		}
		_ = g.Wait()

		for j, f := range batch {
			if err := ctx.Err(); err != nil {
				res.Duration = time.Since(start)
				return res, nil
			}
			progress(PhaseParsing, i+j+1, total, f.RelPath)
			if contents[j] == nil {
				res.FilesSkipped++
				continue
			}
			if err := indexOneFile(st, f, contents[j], progress, i+j+1, total, res); err != nil {
				res.Errors = append(res.Errors, err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		res.Duration = time.Since(start)
		return res, nil
	}
	progress(PhaseResolving, 0, 0, "")
	resolved, err := resolveReferences(st)
	if err != nil {
		return nil, fmt.Errorf("indexer: %w", err)
	}
	res.EdgesWritten += resolved

	res.Duration = time.Since(start)
	res.Successful = true
	return res, nil
}

// indexOneFile extracts one file and writes its nodes, edges, and
// unresolved refs inside a single transaction, per spec's
// delete-if-stale / skip-if-unchanged / insert-if-new rule.
func indexOneFile(st *store.Store, f scanner.FileInfo, source []byte, progress ProgressFunc, current, total int, res *Result) error {
	hash := graphmodel.StrongDigest(source)

	existing, err := st.GetFile(f.RelPath)
	if err != nil {
		return &errs.DatabaseError{Op: "GetFile", Err: err}
	}
	if existing != nil && existing.ContentHash == hash {
		res.FilesSkipped++
		return nil
	}

	result := extractor.Extract(f.RelPath, source, f.Language)
	for _, e := range result.Errors {
		res.Errors = append(res.Errors, e)
	}

	progress(PhaseStoring, current, total, f.RelPath)

	record := &graphmodel.FileRecord{
		Path:        f.RelPath,
		ContentHash: hash,
		Language:    string(f.Language),
		Size:        f.Size,
		ModifiedAt:  time.Now(),
		IndexedAt:   time.Now(),
		NodeCount:   len(result.Nodes),
	}
	for _, e := range result.Errors {
		record.Errors = append(record.Errors, e.Error())
	}

	err = st.WithTransaction(func(tx *store.Store) error {
		if existing != nil {
			if err := tx.DeleteFile(f.RelPath); err != nil {
				return err
			}
		}
		if err := tx.UpsertFile(record); err != nil {
			return err
		}
		if err := tx.UpsertNodes(result.Nodes); err != nil {
			return err
		}
		if err := tx.InsertEdges(result.Edges); err != nil {
			return err
		}
		if err := tx.InsertUnresolvedRefs(result.UnresolvedRefs); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return &errs.DatabaseError{Op: "index " + f.RelPath, Err: err}
	}

	res.FilesProcessed++
	res.NodesWritten += len(result.Nodes)
	res.EdgesWritten += len(result.Edges)
	res.RefsWritten += len(result.UnresolvedRefs)
	return nil
}
