package store

import (
	"fmt"
	"strings"

	"github.com/codegraph/codegraph/internal/graphmodel"
)

// SearchParams filters a lexical node search.
type SearchParams struct {
	Kinds      []graphmodel.NodeKind
	PathGlob   string // SQL LIKE pattern, already translated from a shell glob
	NamePrefix string
	Limit      int
}

// candidateNodes runs the SQL-side filter pass of a lexical search: kind
// and path/name narrowing done in the database, leaving only
// term-matching and ranking to the caller (internal/query), which also
// knows the stop-word and tie-break rules.
func (s *Store) candidateNodes(p SearchParams) ([]*graphmodel.Node, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + nodeColumns + " FROM nodes WHERE 1=1")
	named := map[string]any{}

	if len(p.Kinds) > 0 {
		placeholders := make([]string, len(p.Kinds))
		for i, k := range p.Kinds {
			key := fmt.Sprintf("kind%d", i)
			named[key] = string(k)
			placeholders[i] = ":" + key
		}
		sb.WriteString(" AND kind IN (" + strings.Join(placeholders, ",") + ")")
	}
	if p.PathGlob != "" {
		named["path_glob"] = p.PathGlob
		sb.WriteString(" AND file_path LIKE :path_glob")
	}
	if p.NamePrefix != "" {
		named["name_prefix"] = p.NamePrefix + "%"
		sb.WriteString(" AND name LIKE :name_prefix")
	}

	limit := p.Limit
	if limit <= 0 || limit > 5000 {
		limit = 5000
	}
	sb.WriteString(fmt.Sprintf(" LIMIT %d", limit))

	rows, err := s.queryRows(sb.String(), named)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}
	defer rows.Close()
	return scanNodes(rows)
}

// GlobToLike translates a shell-style glob (using '*' and '?') into a SQL
// LIKE pattern, escaping LIKE's own metacharacters first.
func GlobToLike(glob string) string {
	if glob == "" {
		return ""
	}
	escaped := strings.NewReplacer("%", "\\%", "_", "\\_").Replace(glob)
	escaped = strings.ReplaceAll(escaped, "*", "%")
	escaped = strings.ReplaceAll(escaped, "?", "_")
	return escaped
}

// SearchCandidates exposes candidateNodes to internal/query, which owns
// the term-scoring and tie-break rules a lexical search needs beyond
// plain SQL filtering.
func (s *Store) SearchCandidates(p SearchParams) ([]*graphmodel.Node, error) {
	return s.candidateNodes(p)
}
