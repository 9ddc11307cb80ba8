// Package fqn computes the qualified_name used to cross-reference nodes
// across files: a file-path-rooted, "::"-joined path down to the node.
package fqn

import (
	"path/filepath"
	"strings"
)

// Compute returns the canonical qualified name for a node.
// Format: <rel_path>::<scope_1>::...::<scope_n>::<name>
// Examples:
//   - cmd/server/main.go::HandleRequest
//   - pkg/service/order.go::OrderService::ProcessOrder
func Compute(relPath string, scopes []string, name string) string {
	relPath = filepath.ToSlash(relPath)

	all := make([]string, 0, len(scopes)+2)
	all = append(all, relPath)
	all = append(all, scopes...)
	if name != "" {
		all = append(all, name)
	}
	return strings.Join(all, "::")
}

// ModuleQN returns the qualified name for a module (a file, with no
// enclosing scopes or name of its own).
func ModuleQN(relPath string) string {
	return Compute(relPath, nil, "")
}

// FolderQN returns the qualified name for a directory-level package/
// namespace node, keyed by its path alone.
func FolderQN(relDir string) string {
	return filepath.ToSlash(relDir)
}

// TrimExt strips a file's extension, used when a language's module name
// convention drops it (e.g. Python's "auth.py" module is named "auth").
func TrimExt(relPath string) string {
	return strings.TrimSuffix(relPath, filepath.Ext(relPath))
}

// IsPackageIndex reports whether base is a package-root marker file whose
// own name should not appear in the qualified name of the package it
// defines (Python's __init__.py, JS/TS's index.js/index.ts).
func IsPackageIndex(base string) bool {
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name == "__init__" || name == "index"
}
