package store

import (
	"fmt"

	"github.com/codegraph/codegraph/internal/graphmodel"
)

// Hop is one node reached during a BFS traversal, tagged with its
// distance from the root.
type Hop struct {
	Node *graphmodel.Node
	Hop  int
}

// TraverseResult is the output of a bounded BFS traversal.
type TraverseResult struct {
	Root    *graphmodel.Node
	Visited []*Hop
	Edges   []*graphmodel.Edge
}

type bfsQueueItem struct {
	nodeID string
	hop    int
}

// BFS walks the graph outward from startNodeID, following edges in the
// requested direction ("out", "in", or "both"), optionally restricted to
// edgeKinds, until maxDepth hops or maxResults visited nodes (whichever
// comes first). Used directly for the traverse operation, and as the
// shared walking primitive behind get_impact_radius and the direct-neighbor
// queries; find_paths runs its own depth-first search instead.
func (s *Store) BFS(startNodeID, direction string, edgeKinds []graphmodel.EdgeKind, maxDepth, maxResults int) (*TraverseResult, error) {
	root, err := s.GetNode(startNodeID)
	if err != nil {
		return nil, fmt.Errorf("bfs root: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("bfs: node %s not found", startNodeID)
	}

	result := &TraverseResult{Root: root}
	visited := map[string]bool{startNodeID: true}
	queue := []bfsQueueItem{{nodeID: startNodeID, hop: 0}}
	seenEdge := map[string]bool{}

	for len(queue) > 0 && len(result.Visited) < maxResults {
		item := queue[0]
		queue = queue[1:]

		if item.hop >= maxDepth {
			continue
		}

		edges, err := s.edgesForDirection(item.nodeID, direction, edgeKinds)
		if err != nil {
			return nil, err
		}

		for _, e := range edges {
			key := e.SourceID + "|" + e.TargetID + "|" + string(e.Kind)
			if !seenEdge[key] {
				seenEdge[key] = true
				result.Edges = append(result.Edges, e)
			}

			next := e.TargetID
			if next == item.nodeID {
				next = e.SourceID
			}
			if visited[next] {
				continue
			}
			visited[next] = true

			n, err := s.GetNode(next)
			if err != nil || n == nil {
				continue
			}
			result.Visited = append(result.Visited, &Hop{Node: n, Hop: item.hop + 1})
			queue = append(queue, bfsQueueItem{nodeID: next, hop: item.hop + 1})
			if len(result.Visited) >= maxResults {
				break
			}
		}
	}
	return result, nil
}

func (s *Store) edgesForDirection(nodeID, direction string, kinds []graphmodel.EdgeKind) ([]*graphmodel.Edge, error) {
	switch direction {
	case "out":
		return s.GetEdgesFrom(nodeID, kinds)
	case "in":
		return s.GetEdgesTo(nodeID, kinds)
	case "both":
		out, err := s.GetEdgesFrom(nodeID, kinds)
		if err != nil {
			return nil, err
		}
		in, err := s.GetEdgesTo(nodeID, kinds)
		if err != nil {
			return nil, err
		}
		return append(out, in...), nil
	default:
		return nil, fmt.Errorf("unknown traversal direction %q", direction)
	}
}
