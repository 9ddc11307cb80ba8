// Package scanner enumerates the set of indexable files for a project: a
// VCS fast path when the project is under git, a filesystem walk fallback
// otherwise, both filtered through the project's include/exclude globs and
// max file size. In-tree ignore markers are honored by the walk only; the
// VCS path relies on git's own ignore rules.
package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codegraph/codegraph/internal/config"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/vcs"
)

// MarkerFile, present anywhere in the tree, causes its directory and the
// whole subtree beneath it to be skipped during the fallback walk.
const MarkerFile = ".codegraphignore"

// FileInfo describes one file the scanner selected as indexable.
type FileInfo struct {
	Path     string // absolute
	RelPath  string // relative to project root, slash-separated
	Language lang.Language
	Size     int64
}

// Scan returns the indexable files under root, in the order the active
// path (VCS or walk) produced them. cfg's Include/Exclude/MaxFileSize
// govern which discovered paths make it into the result.
func Scan(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if vcs.IsRepo(root) {
		files, err := scanVCS(ctx, root, cfg)
		if err == nil {
			return files, nil
		}
		slog.Warn("scanner.vcs_fallback", "path", root, "error", err)
	}
	return scanWalk(ctx, root, cfg)
}

func scanVCS(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error) {
	rels, err := vcs.ListFiles(root)
	if err != nil {
		return nil, err
	}
	sort.Strings(rels)

	exclude := cfg.AllExclude()
	var out []FileInfo
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		if !matchesInclude(rel, cfg.Include) || matchesAny(rel, exclude) || anyAncestorExcluded(rel, exclude) {
			continue
		}
		abs := filepath.Join(root, rel)
		info, statErr := os.Stat(abs)
		if statErr != nil {
			slog.Warn("scanner.stat_failed", "path", abs, "error", statErr)
			continue
		}
		fi, ok := toFileInfo(abs, rel, info, cfg)
		if !ok {
			continue
		}
		out = append(out, fi)
	}
	return out, nil
}

func scanWalk(ctx context.Context, root string, cfg *config.Config) ([]FileInfo, error) {
	exclude := cfg.AllExclude()
	visited := map[string]bool{}

	var out []FileInfo
	var walk func(dir, relDir string) error
	walk = func(dir, relDir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		real, err := filepath.EvalSymlinks(dir)
		if err != nil {
			slog.Warn("scanner.unreadable_dir", "path", dir, "error", err)
			return nil
		}
		if visited[real] {
			return nil
		}
		visited[real] = true

		if _, err := os.Stat(filepath.Join(dir, MarkerFile)); err == nil {
			reason := readMarkerReason(filepath.Join(dir, MarkerFile))
			slog.Debug("scanner.marker_skip", "dir", dir, "reason", reason)
			return nil
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Warn("scanner.unreadable_dir", "path", dir, "error", err)
			return nil
		}

		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := entry.Name()
			relPath := filepath.ToSlash(filepath.Join(relDir, name))
			absPath := filepath.Join(dir, name)

			info, err := entry.Info()
			if err != nil {
				slog.Warn("scanner.stat_failed", "path", absPath, "error", err)
				continue
			}
			isDir := entry.IsDir()
			if info.Mode()&os.ModeSymlink != 0 {
				target, err := filepath.EvalSymlinks(absPath)
				if err != nil {
					slog.Warn("scanner.broken_symlink", "path", absPath, "error", err)
					continue
				}
				info, err = os.Stat(target)
				if err != nil {
					slog.Warn("scanner.broken_symlink", "path", absPath, "error", err)
					continue
				}
				isDir = info.IsDir()
			}

			if isDir {
				if matchesAny(relPath, exclude) || matchesAny(relPath+"/", exclude) {
					continue
				}
				if err := walk(absPath, relPath); err != nil {
					return err
				}
				continue
			}

			if !matchesInclude(relPath, cfg.Include) || matchesAny(relPath, exclude) {
				continue
			}
			fi, ok := toFileInfo(absPath, relPath, info, cfg)
			if !ok {
				continue
			}
			out = append(out, fi)
		}
		return nil
	}

	if err := walk(root, ""); err != nil {
		return out, err
	}
	return out, nil
}

func toFileInfo(abs, rel string, info os.FileInfo, cfg *config.Config) (FileInfo, bool) {
	l, ok := lang.LanguageForExtension(filepath.Ext(rel))
	if !ok {
		return FileInfo{}, false
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = config.DefaultMaxFileSize
	}
	if info.Size() > maxSize {
		slog.Warn("scanner.oversized_file", "path", abs, "size", info.Size(), "max", maxSize)
		return FileInfo{}, false
	}
	return FileInfo{Path: abs, RelPath: rel, Language: l, Size: info.Size()}, true
}

func matchesInclude(rel string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	return matchesAny(rel, include)
}

// anyAncestorExcluded reports whether any directory prefix of rel, with a
// trailing separator, matches one of the exclude globs. This is what lets a
// "node_modules/**"-style pattern exclude everything under that directory
// even on the VCS fast path, which hands back flat file paths rather than
// directories the walker could short-circuit.
func anyAncestorExcluded(rel string, patterns []string) bool {
	segments := strings.Split(rel, "/")
	prefix := ""
	for _, seg := range segments[:len(segments)-1] {
		if prefix == "" {
			prefix = seg
		} else {
			prefix += "/" + seg
		}
		if matchesAny(prefix+"/", patterns) {
			return true
		}
	}
	return false
}

func matchesAny(rel string, patterns []string) bool {
	base := filepath.Base(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
	}
	return false
}

func readMarkerReason(path string) string {
	meta, err := parseMarkerFrontMatter(path)
	if err != nil {
		return ""
	}
	return meta.Reason
}
