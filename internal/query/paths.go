package query

import (
	"sort"

	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/graphmodel"
)

// Path is one simple path (no repeated node) from a find_paths search.
type Path struct {
	Nodes []*graphmodel.Node
	Edges []*graphmodel.Edge
}

// FindPaths enumerates up to maxPaths simple paths from `from` to `to`
// by depth-capped DFS, per spec.md §4.7. Shorter paths are preferred:
// the search itself is depth-first, but the final result is sorted by
// length before truncating to maxPaths.
func (e *Engine) FindPaths(from, to string, maxDepth, maxPaths int) ([]*Path, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxPaths <= 0 {
		maxPaths = 10
	}

	finder := &pathFinder{store: e.Store, to: to, maxDepth: maxDepth}
	if err := finder.dfs(from, []*graphmodel.Node{}, []*graphmodel.Edge{}, map[string]bool{from: true}); err != nil {
		return nil, err
	}

	sort.Slice(finder.found, func(i, j int) bool {
		if len(finder.found[i].Nodes) != len(finder.found[j].Nodes) {
			return len(finder.found[i].Nodes) < len(finder.found[j].Nodes)
		}
		return pathKey(finder.found[i]) < pathKey(finder.found[j])
	})
	if len(finder.found) > maxPaths {
		finder.found = finder.found[:maxPaths]
	}
	return finder.found, nil
}

type pathFinder struct {
	store interface {
		GetEdgesFrom(nodeID string, kinds []graphmodel.EdgeKind) ([]*graphmodel.Edge, error)
		GetNode(id string) (*graphmodel.Node, error)
	}
	to       string
	maxDepth int
	found    []*Path
}

func (f *pathFinder) dfs(current string, nodePath []*graphmodel.Node, edgePath []*graphmodel.Edge, visited map[string]bool) error {
	node, err := f.store.GetNode(current)
	if err != nil {
		return &errs.DatabaseError{Op: "GetNode", Err: err}
	}
	if node == nil {
		return nil
	}
	nodePath = append(nodePath, node)

	if current == f.to && len(nodePath) > 1 {
		f.found = append(f.found, &Path{
			Nodes: append([]*graphmodel.Node{}, nodePath...),
			Edges: append([]*graphmodel.Edge{}, edgePath...),
		})
		return nil
	}
	if len(edgePath) >= f.maxDepth {
		return nil
	}

	edges, err := f.store.GetEdgesFrom(current, nil)
	if err != nil {
		return &errs.DatabaseError{Op: "GetEdgesFrom", Err: err}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].TargetID < edges[j].TargetID })

	for _, e := range edges {
		if visited[e.TargetID] {
			continue
		}
		visited[e.TargetID] = true
		if err := f.dfs(e.TargetID, nodePath, append(edgePath, e), visited); err != nil {
			return err
		}
		delete(visited, e.TargetID)
	}
	return nil
}

func pathKey(p *Path) string {
	s := ""
	for _, n := range p.Nodes {
		s += n.ID + ">"
	}
	return s
}
