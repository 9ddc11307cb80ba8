// Package query implements the Query Engine: bounded graph traversals and
// lexical search over the Graph Store, and the get_impact_radius/
// find_paths/search_nodes operations built on top of them.
package query

import (
	"sort"

	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/store"
)

// DefaultMaxDepth and DefaultMaxNodes are the traversal bounds spec.md
// §4.7 names when a caller doesn't set its own.
const (
	DefaultMaxDepth = 2
	DefaultMaxNodes = 50
)

// Options bounds and filters a traversal.
type Options struct {
	MaxDepth  int
	MaxNodes  int
	EdgeKinds []graphmodel.EdgeKind
	NodeKinds []graphmodel.NodeKind
}

func (o Options) normalized() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	return o
}

// Subgraph is the result of a traversal: the visited nodes keyed by id,
// the edges connecting them, the entry points the walk started from, and
// basic stats, per spec.md §4.7's traverse() return shape.
type Subgraph struct {
	Nodes       map[string]*graphmodel.Node
	Edges       []*graphmodel.Edge
	EntryPoints []string
	Stats       Stats
}

// Stats summarizes a Subgraph for callers that don't want to count
// themselves.
type Stats struct {
	NodeCount int
	EdgeCount int
	MaxHop    int
}

// Engine is the Query Engine, bound to one Graph Store.
type Engine struct {
	Store *store.Store
}

// New returns a Query Engine over st.
func New(st *store.Store) *Engine {
	return &Engine{Store: st}
}

// GetCallers returns the direct callers of id: nodes with a `calls` edge
// targeting id.
func (e *Engine) GetCallers(id string) ([]*graphmodel.Node, error) {
	return e.directNeighbors(id, []graphmodel.EdgeKind{graphmodel.EdgeCalls}, "in")
}

// GetCallees returns the direct callees of id: nodes id has a `calls`
// edge to.
func (e *Engine) GetCallees(id string) ([]*graphmodel.Node, error) {
	return e.directNeighbors(id, []graphmodel.EdgeKind{graphmodel.EdgeCalls}, "out")
}

// GetDependencies returns id's direct neighbors across the union
// {imports, calls, extends, implements, references}, outbound.
func (e *Engine) GetDependencies(id string) ([]*graphmodel.Node, error) {
	return e.directNeighbors(id, graphmodel.DependencyEdgeKinds, "out")
}

// GetDependents returns id's direct neighbors across the same union,
// inbound.
func (e *Engine) GetDependents(id string) ([]*graphmodel.Node, error) {
	return e.directNeighbors(id, graphmodel.DependencyEdgeKinds, "in")
}

func (e *Engine) directNeighbors(id string, kinds []graphmodel.EdgeKind, direction string) ([]*graphmodel.Node, error) {
	result, err := e.Store.BFS(id, direction, kinds, 1, DefaultMaxNodes)
	if err != nil {
		return nil, &errs.DatabaseError{Op: "BFS", Err: err}
	}
	nodes := make([]*graphmodel.Node, 0, len(result.Visited))
	for _, h := range result.Visited {
		nodes = append(nodes, h.Node)
	}
	sortNodesForDeterminism(nodes)
	return nodes, nil
}

// Traverse runs a bounded BFS from every start id, merging the results
// into one Subgraph capped at opts.MaxNodes total.
func (e *Engine) Traverse(starts []string, opts Options) (*Subgraph, error) {
	opts = opts.normalized()
	sub := &Subgraph{
		Nodes:       map[string]*graphmodel.Node{},
		EntryPoints: append([]string{}, starts...),
	}
	seenEdge := map[string]bool{}

	for _, start := range starts {
		if len(sub.Nodes) >= opts.MaxNodes {
			break
		}
		result, err := e.Store.BFS(start, "both", opts.EdgeKinds, opts.MaxDepth, opts.MaxNodes-len(sub.Nodes))
		if err != nil {
			return nil, &errs.DatabaseError{Op: "BFS", Err: err}
		}
		if result.Root != nil {
			sub.Nodes[result.Root.ID] = result.Root
		}
		for _, h := range result.Visited {
			if len(sub.Nodes) >= opts.MaxNodes {
				break
			}
			if !matchesNodeKinds(h.Node, opts.NodeKinds) {
				continue
			}
			sub.Nodes[h.Node.ID] = h.Node
			if h.Hop > sub.Stats.MaxHop {
				sub.Stats.MaxHop = h.Hop
			}
		}
		for _, ed := range result.Edges {
			key := ed.SourceID + "|" + ed.TargetID + "|" + string(ed.Kind)
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			sub.Edges = append(sub.Edges, ed)
		}
	}

	sub.Stats.NodeCount = len(sub.Nodes)
	sub.Stats.EdgeCount = len(sub.Edges)
	return sub, nil
}

func matchesNodeKinds(n *graphmodel.Node, kinds []graphmodel.NodeKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}

// sortNodesForDeterminism applies the tie-break rule spec.md §4.7 states
// for traversal and search results that otherwise have no natural order:
// lexicographic node id.
func sortNodesForDeterminism(nodes []*graphmodel.Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
}
