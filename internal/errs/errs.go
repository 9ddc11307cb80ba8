// Package errs holds the small typed-error set shared across codegraph's
// layers, so callers can distinguish failure categories with errors.As
// instead of matching on message text.
package errs

import "fmt"

// FileError covers path resolution, traversal escape, and unreadable-file
// failures encountered by the scanner and indexer. Path is always set.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("file %s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// ParseError wraps a parser failure for a specific file and language.
type ParseError struct {
	Path     string
	Language string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s): %v", e.Path, e.Language, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// DatabaseError covers embedded-engine failures, tagged with the operation
// that failed (e.g. "UpsertNode", "BFS").
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string { return fmt.Sprintf("database %s: %v", e.Op, e.Err) }
func (e *DatabaseError) Unwrap() error { return e.Err }

// SearchError covers malformed or unsupported query engine requests.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string { return fmt.Sprintf("search %q: %v", e.Query, e.Err) }
func (e *SearchError) Unwrap() error { return e.Err }

// VectorError covers failures from the optional embedding collaborator.
type VectorError struct {
	Model string
	Err   error
}

func (e *VectorError) Error() string { return fmt.Sprintf("vector %s: %v", e.Model, e.Err) }
func (e *VectorError) Unwrap() error { return e.Err }

// ConfigError covers invalid configuration structure or values. Always
// fatal to the invocation that raised it.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }
