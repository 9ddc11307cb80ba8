package main

import (
	"fmt"

	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/store"
)

// resolveNodeID accepts either a literal node id or a name to look up,
// per spec.md §6's "direct edge queries by id or name." A name is
// resolved by exact qualified-name match first, falling back to the
// highest-ranked search_nodes hit.
func resolveNodeID(st *store.Store, q *query.Engine, id, name string) (string, error) {
	if id != "" {
		return id, nil
	}
	if name == "" {
		return "", fmt.Errorf("one of --id or --name is required")
	}

	if n, err := st.GetNodeByQualifiedName(name); err == nil && n != nil {
		return n.ID, nil
	}

	hits, err := q.SearchNodes(name, query.SearchOptions{Limit: 1})
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return "", fmt.Errorf("no node found matching %q", name)
	}
	return hits[0].Node.ID, nil
}
