package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/codegraph/codegraph/internal/graphmodel"
)

// UpsertFile records or updates a file's bookkeeping row: its content
// hash, language, size, and indexing timestamps. Call DeleteFile first
// when a file's node set needs to be replaced wholesale (the cascade from
// files to nodes to edges/unresolved_refs handles that in one delete).
func (s *Store) UpsertFile(f *graphmodel.FileRecord) error {
	errs, err := json.Marshal(f.Errors)
	if err != nil {
		errs = []byte("[]")
	}
	_, execErr := s.exec(`
		INSERT INTO files (path, content_hash, language, size, modified_at, indexed_at, node_count, errors)
		VALUES (:path, :content_hash, :language, :size, :modified_at, :indexed_at, :node_count, :errors)
		ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash, language=excluded.language, size=excluded.size,
			modified_at=excluded.modified_at, indexed_at=excluded.indexed_at,
			node_count=excluded.node_count, errors=excluded.errors`,
		map[string]any{
			"path": f.Path, "content_hash": f.ContentHash, "language": f.Language, "size": f.Size,
			"modified_at": formatTimestamp(f.ModifiedAt), "indexed_at": formatTimestamp(f.IndexedAt),
			"node_count": f.NodeCount, "errors": string(errs),
		})
	if execErr != nil {
		return fmt.Errorf("upsert file %s: %w", f.Path, execErr)
	}
	return nil
}

const fileColumns = `path, content_hash, language, size, modified_at, indexed_at, node_count, errors`

// GetFile fetches a file's bookkeeping row. Returns nil, nil if the file
// has never been indexed.
func (s *Store) GetFile(path string) (*graphmodel.FileRecord, error) {
	row := s.queryRow(`SELECT `+fileColumns+` FROM files WHERE path=:path`, map[string]any{"path": path})
	return scanFile(row)
}

// GetAllFiles returns every indexed file's bookkeeping row.
func (s *Store) GetAllFiles() ([]*graphmodel.FileRecord, error) {
	rows, err := s.queryRows(`SELECT `+fileColumns+` FROM files ORDER BY path`, nil)
	if err != nil {
		return nil, fmt.Errorf("get all files: %w", err)
	}
	defer rows.Close()

	var out []*graphmodel.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFile(row rowScanner) (*graphmodel.FileRecord, error) {
	var f graphmodel.FileRecord
	var modifiedAt, indexedAt, errs string
	err := row.Scan(&f.Path, &f.ContentHash, &f.Language, &f.Size, &modifiedAt, &indexedAt, &f.NodeCount, &errs)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	f.ModifiedAt = parseTimestamp(modifiedAt)
	f.IndexedAt = parseTimestamp(indexedAt)
	if errs != "" {
		_ = json.Unmarshal([]byte(errs), &f.Errors)
	}
	return &f, nil
}
