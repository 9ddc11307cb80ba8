package store

import (
	"database/sql"
	"fmt"

	"github.com/codegraph/codegraph/internal/graphmodel"
)

// InsertEdge inserts a resolved edge, deduplicated by (source, target,
// kind, line_number) — the same source calling the same target from two
// distinct call sites is two distinct edges, not one overwritten row.
func (s *Store) InsertEdge(e *graphmodel.Edge) error {
	_, err := s.exec(`
		INSERT INTO edges (source_id, target_id, kind, line_number, metadata)
		VALUES (:source_id, :target_id, :kind, :line_number, :metadata)
		ON CONFLICT(source_id, target_id, kind, line_number) DO UPDATE SET
			metadata=excluded.metadata`,
		map[string]any{
			"source_id": e.SourceID, "target_id": e.TargetID, "kind": string(e.Kind),
			"line_number": e.LineNumber, "metadata": marshalMeta(e.Metadata),
		})
	if err != nil {
		return fmt.Errorf("insert edge %s->%s: %w", e.SourceID, e.TargetID, err)
	}
	return nil
}

// InsertEdges inserts many resolved edges inside the caller's transaction.
func (s *Store) InsertEdges(edges []*graphmodel.Edge) error {
	for _, e := range edges {
		if err := s.InsertEdge(e); err != nil {
			return err
		}
	}
	return nil
}

// InsertUnresolvedRef records a pending reference whose target name could
// not be resolved to a node id at extraction time.
func (s *Store) InsertUnresolvedRef(r *graphmodel.UnresolvedRef) error {
	_, err := s.exec(`
		INSERT INTO unresolved_refs (from_node_id, reference_name, reference_kind, line_number, column_number, file_path, language)
		VALUES (:from_node_id, :reference_name, :reference_kind, :line_number, :column_number, :file_path, :language)`,
		map[string]any{
			"from_node_id": r.FromNodeID, "reference_name": r.ReferenceName, "reference_kind": string(r.ReferenceKind),
			"line_number": r.Line, "column_number": r.Column, "file_path": r.FilePath, "language": r.Language,
		})
	if err != nil {
		return fmt.Errorf("insert unresolved ref %s: %w", r.ReferenceName, err)
	}
	return nil
}

// InsertUnresolvedRefs records many pending references inside the
// caller's transaction.
func (s *Store) InsertUnresolvedRefs(refs []*graphmodel.UnresolvedRef) error {
	for _, r := range refs {
		if err := s.InsertUnresolvedRef(r); err != nil {
			return err
		}
	}
	return nil
}

// UnresolvedRefRow pairs a pending reference with its storage-only rowid,
// so a resolution pass can delete exactly the rows it successfully
// promoted to edges without disturbing the rest.
type UnresolvedRefRow struct {
	RowID int64
	Ref   *graphmodel.UnresolvedRef
}

// GetUnresolvedRefs returns every pending reference currently stored,
// for a resolution pass to match against the graph's nodes.
func (s *Store) GetUnresolvedRefs() ([]*UnresolvedRefRow, error) {
	rows, err := s.queryRows(`
		SELECT rowid, from_node_id, reference_name, reference_kind, line_number, column_number, file_path, language
		FROM unresolved_refs`, nil)
	if err != nil {
		return nil, fmt.Errorf("get unresolved refs: %w", err)
	}
	defer rows.Close()

	var out []*UnresolvedRefRow
	for rows.Next() {
		var row UnresolvedRefRow
		var ref graphmodel.UnresolvedRef
		var kind string
		if err := rows.Scan(&row.RowID, &ref.FromNodeID, &ref.ReferenceName, &kind, &ref.Line, &ref.Column, &ref.FilePath, &ref.Language); err != nil {
			return nil, err
		}
		ref.ReferenceKind = graphmodel.EdgeKind(kind)
		row.Ref = &ref
		out = append(out, &row)
	}
	return out, rows.Err()
}

// DeleteUnresolvedRefs removes pending references by rowid, once a
// resolution pass has promoted them into real edges.
func (s *Store) DeleteUnresolvedRefs(rowIDs []int64) error {
	for _, id := range rowIDs {
		if _, err := s.exec(`DELETE FROM unresolved_refs WHERE rowid=:rowid`, map[string]any{"rowid": id}); err != nil {
			return fmt.Errorf("delete unresolved ref %d: %w", id, err)
		}
	}
	return nil
}

const edgeColumns = `source_id, target_id, kind, line_number, metadata`

// GetEdgesFrom returns every edge whose source is nodeID, optionally
// restricted to the given kinds (all kinds if empty).
func (s *Store) GetEdgesFrom(nodeID string, kinds []graphmodel.EdgeKind) ([]*graphmodel.Edge, error) {
	return s.getEdgesBySide("source_id", nodeID, kinds)
}

// GetEdgesTo returns every edge whose target is nodeID, optionally
// restricted to the given kinds.
func (s *Store) GetEdgesTo(nodeID string, kinds []graphmodel.EdgeKind) ([]*graphmodel.Edge, error) {
	return s.getEdgesBySide("target_id", nodeID, kinds)
}

func (s *Store) getEdgesBySide(column, nodeID string, kinds []graphmodel.EdgeKind) ([]*graphmodel.Edge, error) {
	query := fmt.Sprintf(`SELECT %s FROM edges WHERE %s=:node_id`, edgeColumns, column)
	named := map[string]any{"node_id": nodeID}
	if len(kinds) > 0 {
		placeholders := ""
		for i, k := range kinds {
			key := fmt.Sprintf("kind%d", i)
			named[key] = string(k)
			if i > 0 {
				placeholders += ","
			}
			placeholders += ":" + key
		}
		query += fmt.Sprintf(" AND kind IN (%s)", placeholders)
	}
	rows, err := s.queryRows(query, named)
	if err != nil {
		return nil, fmt.Errorf("get edges by %s: %w", column, err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// GetEdgesBetween returns the edges directly connecting source and
// target, optionally restricted to the given kinds.
func (s *Store) GetEdgesBetween(sourceID, targetID string, kinds []graphmodel.EdgeKind) ([]*graphmodel.Edge, error) {
	query := fmt.Sprintf(`SELECT %s FROM edges WHERE source_id=:source_id AND target_id=:target_id`, edgeColumns)
	named := map[string]any{"source_id": sourceID, "target_id": targetID}
	if len(kinds) > 0 {
		placeholders := ""
		for i, k := range kinds {
			key := fmt.Sprintf("kind%d", i)
			named[key] = string(k)
			if i > 0 {
				placeholders += ","
			}
			placeholders += ":" + key
		}
		query += fmt.Sprintf(" AND kind IN (%s)", placeholders)
	}
	rows, err := s.queryRows(query, named)
	if err != nil {
		return nil, fmt.Errorf("get edges between: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// CountEdges returns the total number of edges stored.
func (s *Store) CountEdges() (int, error) {
	var count int
	err := s.queryRow(`SELECT COUNT(*) FROM edges`, nil).Scan(&count)
	return count, err
}

func scanEdges(rows *sql.Rows) ([]*graphmodel.Edge, error) {
	var out []*graphmodel.Edge
	for rows.Next() {
		var e graphmodel.Edge
		var kind, metadata string
		if err := rows.Scan(&e.SourceID, &e.TargetID, &kind, &e.LineNumber, &metadata); err != nil {
			return nil, err
		}
		e.Kind = graphmodel.EdgeKind(kind)
		e.Resolved = true
		e.Metadata = unmarshalMeta(metadata)
		out = append(out, &e)
	}
	return out, rows.Err()
}
