// Package store persists the code graph in an embedded SQLite database,
// one per indexed project, living at <project_root>/.codegraph/graph.db.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both
// top-level and transactional contexts.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection for graph storage.
type Store struct {
	db      *sql.DB
	q       Querier // active querier: db or tx
	dbPath  string
	backend Backend
	lock    *fileLock // nil for transaction-scoped and in-memory stores

	stmtMu sync.Mutex
	stmts  map[string]*sql.Stmt
}

// DotDir is the directory name under a project root holding all
// codegraph state.
const DotDir = ".codegraph"

// DBFileName is the SQLite database file name inside DotDir.
const DBFileName = "graph.db"

// PathFor returns the database path for a project root.
func PathFor(projectRoot string) string {
	return filepath.Join(projectRoot, DotDir, DBFileName)
}

// Open opens or creates the graph database for a project rooted at
// projectRoot, acquiring the single-writer lock. Close must be called to
// release it.
func Open(projectRoot string) (*Store, error) {
	dir := filepath.Join(projectRoot, DotDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	dbPath := filepath.Join(dir, DBFileName)

	lock := newFileLock(dbPath)
	if err := lock.Acquire(); err != nil {
		return nil, err
	}

	s, err := openPath(dbPath)
	if err != nil {
		_ = lock.Release()
		return nil, err
	}
	s.lock = lock
	return s, nil
}

// openPath opens a SQLite database at an exact file path, without taking
// the project lock (used by Open after the lock is held).
func openPath(dbPath string) (*Store, error) {
	backend := defaultBackend()
	db, err := sql.Open(backend.DriverName(), backend.DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath, backend: backend, stmts: map[string]*sql.Stmt{}}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory SQLite database, for tests.
func OpenMemory() (*Store, error) {
	backend := defaultBackend()
	db, err := sql.Open(backend.DriverName(), backend.DSN(":memory:"))
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	s := &Store{db: db, dbPath: ":memory:", backend: backend, stmts: map[string]*sql.Stmt{}}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction executes fn within a single SQLite transaction. The
// callback receives a transaction-scoped Store; all store methods called
// on txStore use the transaction. The receiver's q field is never
// mutated, so concurrent read-only callers (using s.q == s.db) are
// unaffected.
func (s *Store) WithTransaction(fn func(txStore *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath, backend: s.backend, stmts: map[string]*sql.Stmt{}}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close finalizes every prepared statement, closes the database, and
// releases the single-writer lock if this Store holds one.
func (s *Store) Close() error {
	s.stmtMu.Lock()
	for _, stmt := range s.stmts {
		_ = stmt.Close()
	}
	s.stmts = nil
	s.stmtMu.Unlock()

	err := s.db.Close()
	if s.lock != nil {
		if lockErr := s.lock.Release(); lockErr != nil && err == nil {
			err = lockErr
		}
	}
	return err
}

// DB returns the underlying sql.DB, for callers that need direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// prepare returns a cached prepared statement for query, preparing and
// caching it on first use. Explicit tracking (rather than relying on the
// driver's own statement cache) matters most for the portable backend,
// whose pure-Go driver does not pool statements behind the scenes the way
// cgo's SQLite does.
func (s *Store) prepare(query string) (*sql.Stmt, error) {
	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()

	if stmt, ok := s.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	s.stmts[query] = stmt
	return stmt, nil
}

// exec runs a named-parameter statement against the active querier.
func (s *Store) exec(query string, named map[string]any) (sql.Result, error) {
	q, args, err := bindNamed(query, named)
	if err != nil {
		return nil, err
	}
	return s.q.Exec(q, args...)
}

// queryRows runs a named-parameter SELECT against the active querier.
func (s *Store) queryRows(query string, named map[string]any) (*sql.Rows, error) {
	q, args, err := bindNamed(query, named)
	if err != nil {
		return nil, err
	}
	return s.q.Query(q, args...)
}

// queryRow runs a named-parameter single-row SELECT against the active
// querier. Bind errors surface through the returned *sql.Row's Scan.
func (s *Store) queryRow(query string, named map[string]any) *sql.Row {
	q, args, err := bindNamed(query, named)
	if err != nil {
		return s.q.QueryRow("SELECT 1 WHERE 0") // forces sql.ErrNoRows on Scan
	}
	return s.q.QueryRow(q, args...)
}
