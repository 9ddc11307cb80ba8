package store

import (
	"database/sql"
	"fmt"
)

// currentSchemaVersion is the schema version this build of the store
// knows how to read and write. meta.schema_version records the version a
// database was last written at; migrations bring an older database up to
// currentSchemaVersion on open.
const currentSchemaVersion = 1

const schemaDDL = `
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS files (
	path TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	language TEXT NOT NULL DEFAULT '',
	size INTEGER NOT NULL DEFAULT 0,
	modified_at TEXT NOT NULL DEFAULT '',
	indexed_at TEXT NOT NULL DEFAULT '',
	node_count INTEGER NOT NULL DEFAULT 0,
	errors TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	qualified_name TEXT NOT NULL,
	file_path TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
	language TEXT NOT NULL DEFAULT '',
	start_line INTEGER NOT NULL DEFAULT 0,
	end_line INTEGER NOT NULL DEFAULT 0,
	start_column INTEGER NOT NULL DEFAULT 0,
	end_column INTEGER NOT NULL DEFAULT 0,
	signature TEXT NOT NULL DEFAULT '',
	docstring TEXT NOT NULL DEFAULT '',
	code_snippet TEXT NOT NULL DEFAULT '',
	code_hash TEXT NOT NULL DEFAULT '',
	metadata TEXT NOT NULL DEFAULT '{}',
	visibility TEXT NOT NULL DEFAULT '',
	is_exported INTEGER NOT NULL DEFAULT 0,
	is_async INTEGER NOT NULL DEFAULT 0,
	is_static INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_nodes_qn ON nodes(qualified_name);
CREATE INDEX IF NOT EXISTS idx_nodes_kind ON nodes(kind);
CREATE INDEX IF NOT EXISTS idx_nodes_file ON nodes(file_path);
CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(name);

CREATE TABLE IF NOT EXISTS edges (
	source_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	target_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	kind TEXT NOT NULL,
	line_number INTEGER NOT NULL DEFAULT 0,
	metadata TEXT NOT NULL DEFAULT '{}',
	PRIMARY KEY (source_id, target_id, kind, line_number)
);

CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id, kind);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id, kind);

CREATE TABLE IF NOT EXISTS unresolved_refs (
	from_node_id TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	reference_name TEXT NOT NULL,
	reference_kind TEXT NOT NULL,
	line_number INTEGER NOT NULL DEFAULT 0,
	column_number INTEGER NOT NULL DEFAULT 0,
	file_path TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_unresolved_name ON unresolved_refs(reference_name);
CREATE INDEX IF NOT EXISTS idx_unresolved_from ON unresolved_refs(from_node_id);
`

// migrations holds the forward steps needed to bring a database from
// version i (its slice index) to version i+1. There is only one version
// today; the slice exists so a future schema change has a home that
// doesn't require touching initSchema's CREATE TABLE statements.
var migrations = []func(*sql.Tx) error{}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return s.runMigrations()
}

func (s *Store) runMigrations() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}

	if version == 0 {
		return s.setSchemaVersion(currentSchemaVersion)
	}

	for version < len(migrations) {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if err := migrations[version](tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d: %w", version+1, err)
		}
		version++
		if _, err := tx.Exec(`INSERT INTO meta(key, value) VALUES('schema_version', ?)
			ON CONFLICT(key) DO UPDATE SET value=excluded.value`, fmt.Sprint(version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", version, err)
		}
	}
	return nil
}

func (s *Store) schemaVersion() (int, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key='schema_version'`).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	var version int
	if _, err := fmt.Sscanf(raw, "%d", &version); err != nil {
		return 0, fmt.Errorf("parse schema_version %q: %w", raw, err)
	}
	return version, nil
}

func (s *Store) setSchemaVersion(v int) error {
	_, err := s.db.Exec(`INSERT INTO meta(key, value) VALUES('schema_version', ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, fmt.Sprint(v))
	return err
}

// SchemaInfo summarizes the graph's shape for the status command.
type SchemaInfo struct {
	NodeKinds map[string]int
	EdgeKinds map[string]int
	FileCount int
	NodeCount int
	EdgeCount int
}

// GetSchema introspects the current graph: per-kind node and edge counts,
// and aggregate totals. It does this with two grouped scans (nodes, edges)
// and a file count instead of a three-way JOIN, matching the shape of the
// teacher's own schema summary.
func (s *Store) GetSchema() (*SchemaInfo, error) {
	info := &SchemaInfo{NodeKinds: map[string]int{}, EdgeKinds: map[string]int{}}

	rows, err := s.q.Query(`SELECT kind, COUNT(*) FROM nodes GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("schema node kinds: %w", err)
	}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			rows.Close()
			return nil, err
		}
		info.NodeKinds[kind] = count
		info.NodeCount += count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = s.q.Query(`SELECT kind, COUNT(*) FROM edges GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("schema edge kinds: %w", err)
	}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			rows.Close()
			return nil, err
		}
		info.EdgeKinds[kind] = count
		info.EdgeCount += count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := s.q.QueryRow(`SELECT COUNT(*) FROM files`).Scan(&info.FileCount); err != nil {
		return nil, fmt.Errorf("schema file count: %w", err)
	}
	return info, nil
}
