package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codegraph/codegraph/internal/graphmodel"
)

func marshalMeta(m map[string]any) string {
	if m == nil {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func unmarshalMeta(data string) map[string]any {
	if data == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return map[string]any{}
	}
	return m
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// UpsertNode inserts or replaces a node, deduplicated by its content-derived id.
func (s *Store) UpsertNode(n *graphmodel.Node) error {
	_, err := s.exec(`
		INSERT INTO nodes (id, kind, name, qualified_name, file_path, language,
			start_line, end_line, start_column, end_column, signature, docstring,
			code_snippet, code_hash, metadata, visibility, is_exported, is_async, is_static, updated_at)
		VALUES (:id, :kind, :name, :qualified_name, :file_path, :language,
			:start_line, :end_line, :start_column, :end_column, :signature, :docstring,
			:code_snippet, :code_hash, :metadata, :visibility, :is_exported, :is_async, :is_static, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			kind=excluded.kind, name=excluded.name, qualified_name=excluded.qualified_name,
			file_path=excluded.file_path, language=excluded.language,
			start_line=excluded.start_line, end_line=excluded.end_line,
			start_column=excluded.start_column, end_column=excluded.end_column,
			signature=excluded.signature, docstring=excluded.docstring,
			code_snippet=excluded.code_snippet, code_hash=excluded.code_hash,
			metadata=excluded.metadata, visibility=excluded.visibility,
			is_exported=excluded.is_exported, is_async=excluded.is_async,
			is_static=excluded.is_static, updated_at=excluded.updated_at`,
		map[string]any{
			"id": n.ID, "kind": string(n.Kind), "name": n.Name, "qualified_name": n.QualifiedName,
			"file_path": n.FilePath, "language": n.Language,
			"start_line": n.StartLine, "end_line": n.EndLine,
			"start_column": n.StartColumn, "end_column": n.EndColumn,
			"signature": n.Signature, "docstring": n.Docstring,
			"code_snippet": n.CodeSnippet, "code_hash": n.CodeHash,
			"metadata": marshalMeta(n.Metadata), "visibility": string(n.Visibility),
			"is_exported": boolToInt(n.IsExported), "is_async": boolToInt(n.IsAsync),
			"is_static": boolToInt(n.IsStatic), "updated_at": formatTimestamp(n.UpdatedAt)})
	if err != nil {
		return fmt.Errorf("upsert node %s: %w", n.ID, err)
	}
	return nil
}

// UpsertNodes inserts or replaces many nodes inside the caller's transaction.
func (s *Store) UpsertNodes(nodes []*graphmodel.Node) error {
	for _, n := range nodes {
		if err := s.UpsertNode(n); err != nil {
			return err
		}
	}
	return nil
}

const nodeColumns = `id, kind, name, qualified_name, file_path, language,
	start_line, end_line, start_column, end_column, signature, docstring,
	code_snippet, code_hash, metadata, visibility, is_exported, is_async, is_static, updated_at`

// GetNode fetches a node by its id. Returns nil, nil if not found.
func (s *Store) GetNode(id string) (*graphmodel.Node, error) {
	row := s.queryRow(`SELECT `+nodeColumns+` FROM nodes WHERE id=:id`, map[string]any{"id": id})
	return scanNode(row)
}

// GetNodeByQualifiedName fetches a node by its qualified name. Matches
// the first row if more than one node shares a qualified name (rare:
// language-specific overloads keyed identically).
func (s *Store) GetNodeByQualifiedName(qn string) (*graphmodel.Node, error) {
	row := s.queryRow(`SELECT `+nodeColumns+` FROM nodes WHERE qualified_name=:qn LIMIT 1`, map[string]any{"qn": qn})
	return scanNode(row)
}

// GetNodesByKind returns every node of a given kind.
func (s *Store) GetNodesByKind(kind graphmodel.NodeKind) ([]*graphmodel.Node, error) {
	rows, err := s.queryRows(`SELECT `+nodeColumns+` FROM nodes WHERE kind=:kind`, map[string]any{"kind": string(kind)})
	if err != nil {
		return nil, fmt.Errorf("get nodes by kind: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// GetNodesByFile returns every node defined in a file.
func (s *Store) GetNodesByFile(path string) ([]*graphmodel.Node, error) {
	rows, err := s.queryRows(`SELECT `+nodeColumns+` FROM nodes WHERE file_path=:path ORDER BY start_line`, map[string]any{"path": path})
	if err != nil {
		return nil, fmt.Errorf("get nodes by file: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// GetNodesByIDs batch-fetches nodes, respecting SQLite's bind variable
// limit by chunking the IN clause.
func (s *Store) GetNodesByIDs(ids []string) (map[string]*graphmodel.Node, error) {
	result := make(map[string]*graphmodel.Node, len(ids))
	const batchSize = 500

	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[i:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, len(chunk))
		for j, id := range chunk {
			placeholders[j] = "?"
			args[j] = id
		}
		query := fmt.Sprintf("SELECT %s FROM nodes WHERE id IN (%s)", nodeColumns, strings.Join(placeholders, ","))

		rows, err := s.q.Query(query, args...)
		if err != nil {
			return nil, fmt.Errorf("get nodes by ids: %w", err)
		}
		nodes, err := scanNodes(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			result[n.ID] = n
		}
	}
	return result, nil
}

// AllNodes returns every node in the store, for building an in-memory
// name/qualified-name lookup (e.g. the reference resolution pass).
func (s *Store) AllNodes() ([]*graphmodel.Node, error) {
	rows, err := s.queryRows(`SELECT `+nodeColumns+` FROM nodes`, nil)
	if err != nil {
		return nil, fmt.Errorf("get all nodes: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// DeleteFile removes a file's row and, via ON DELETE CASCADE, every node
// defined in it and every edge/unresolved ref touching those nodes.
func (s *Store) DeleteFile(path string) error {
	_, err := s.exec(`DELETE FROM files WHERE path=:path`, map[string]any{"path": path})
	if err != nil {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*graphmodel.Node, error) {
	var n graphmodel.Node
	var kind, visibility, updatedAt, metadata string
	var isExported, isAsync, isStatic int
	err := row.Scan(&n.ID, &kind, &n.Name, &n.QualifiedName, &n.FilePath, &n.Language,
		&n.StartLine, &n.EndLine, &n.StartColumn, &n.EndColumn, &n.Signature, &n.Docstring,
		&n.CodeSnippet, &n.CodeHash, &metadata, &visibility, &isExported, &isAsync, &isStatic, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	n.Kind = graphmodel.NodeKind(kind)
	n.Visibility = graphmodel.Visibility(visibility)
	n.Metadata = unmarshalMeta(metadata)
	n.IsExported = isExported != 0
	n.IsAsync = isAsync != 0
	n.IsStatic = isStatic != 0
	n.UpdatedAt = parseTimestamp(updatedAt)
	return &n, nil
}

func scanNodes(rows *sql.Rows) ([]*graphmodel.Node, error) {
	var out []*graphmodel.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
