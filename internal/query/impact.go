package query

import (
	"sort"

	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/graphmodel"
)

// RiskLevel buckets a node reached during an impact-radius walk by how
// many hops separate it from the node under change. This rides alongside
// spec.md's plain node set as an advisory annotation, not a replacement
// for it.
type RiskLevel string

const (
	RiskCritical RiskLevel = "critical"
	RiskHigh     RiskLevel = "high"
	RiskMedium   RiskLevel = "medium"
	RiskLow      RiskLevel = "low"
)

// HopToRisk maps a BFS hop distance to a risk tier.
func HopToRisk(hop int) RiskLevel {
	switch hop {
	case 1:
		return RiskCritical
	case 2:
		return RiskHigh
	case 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ImpactNode is one node in an impact radius, tagged with its distance
// and risk tier.
type ImpactNode struct {
	Node *graphmodel.Node
	Hop  int
	Risk RiskLevel
}

// ImpactRadius is the set of nodes that could be affected by a change to
// the root node, per spec.md §4.7's get_impact_radius.
type ImpactRadius struct {
	Root   *graphmodel.Node
	Nodes  []*ImpactNode
	Counts map[RiskLevel]int
}

// GetImpactRadius walks inbound from id over opts.EdgeKinds (the
// dependency union when unset) up to opts.MaxDepth/opts.MaxNodes, and
// buckets the result by risk tier.
func (e *Engine) GetImpactRadius(id string, opts Options) (*ImpactRadius, error) {
	opts = opts.normalized()
	kinds := opts.EdgeKinds
	if len(kinds) == 0 {
		kinds = graphmodel.DependencyEdgeKinds
	}

	result, err := e.Store.BFS(id, "in", kinds, opts.MaxDepth, opts.MaxNodes)
	if err != nil {
		return nil, &errs.DatabaseError{Op: "BFS", Err: err}
	}

	radius := &ImpactRadius{Root: result.Root, Counts: map[RiskLevel]int{}}
	for _, h := range result.Visited {
		if !matchesNodeKinds(h.Node, opts.NodeKinds) {
			continue
		}
		risk := HopToRisk(h.Hop)
		radius.Nodes = append(radius.Nodes, &ImpactNode{Node: h.Node, Hop: h.Hop, Risk: risk})
		radius.Counts[risk]++
	}
	sortImpactNodes(radius.Nodes)
	return radius, nil
}

// sortImpactNodes applies spec.md §4.7's tie-break rule: higher kind bonus
// first (here, lower hop, i.e. higher risk, stands in for "kind bonus" on
// an impact radius, since risk tier is this operation's own ranking
// dimension), then lexicographic node id.
func sortImpactNodes(nodes []*ImpactNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Hop != nodes[j].Hop {
			return nodes[i].Hop < nodes[j].Hop
		}
		return nodes[i].Node.ID < nodes[j].Node.ID
	})
}
