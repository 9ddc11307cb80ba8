package rpc

import (
	"context"
	"encoding/json"

	"github.com/codegraph/codegraph/internal/context"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/store"
)

// NodeIDParams is the shared params shape for the four direct-neighbor
// queries, which all take just a node id.
type NodeIDParams struct {
	ID string `json:"id"`
}

// TraverseParams mirrors query.Options over the wire.
type TraverseParams struct {
	Starts    []string              `json:"starts"`
	MaxDepth  int                   `json:"max_depth,omitempty"`
	MaxNodes  int                   `json:"max_nodes,omitempty"`
	EdgeKinds []graphmodel.EdgeKind `json:"edge_kinds,omitempty"`
	NodeKinds []graphmodel.NodeKind `json:"node_kinds,omitempty"`
}

// ImpactRadiusParams mirrors get_impact_radius's id+options shape.
type ImpactRadiusParams struct {
	ID        string                `json:"id"`
	MaxDepth  int                   `json:"max_depth,omitempty"`
	MaxNodes  int                   `json:"max_nodes,omitempty"`
	EdgeKinds []graphmodel.EdgeKind `json:"edge_kinds,omitempty"`
	NodeKinds []graphmodel.NodeKind `json:"node_kinds,omitempty"`
}

// FindPathsParams mirrors find_paths's from/to/bounds shape.
type FindPathsParams struct {
	From     string `json:"from"`
	To       string `json:"to"`
	MaxDepth int    `json:"max_depth,omitempty"`
	MaxPaths int    `json:"max_paths,omitempty"`
}

// SearchNodesParams mirrors search_nodes's text+options shape.
type SearchNodesParams struct {
	Text  string                `json:"text"`
	Kinds []graphmodel.NodeKind `json:"kinds,omitempty"`
	Limit int                   `json:"limit,omitempty"`
}

// BuildContextParams mirrors build_context's task+bounds shape.
type BuildContextParams struct {
	Task             string `json:"task"`
	SearchLimit      int    `json:"search_limit,omitempty"`
	TraversalDepth   int    `json:"traversal_depth,omitempty"`
	MaxNodes         int    `json:"max_nodes,omitempty"`
	MaxCodeBlocks    int    `json:"max_code_blocks,omitempty"`
	MaxCodeBlockSize int    `json:"max_code_block_size,omitempty"`
}

// RegisterCodegraphMethods wires the closed dispatch table SPEC_FULL.md
// §6 names — codegraph.getCallers, getCallees, getDependencies,
// getDependents, traverse, impactRadius, findPaths, searchNodes,
// buildContext, status — onto the given Graph Store, Query Engine, and
// Context Builder. Each handler's own error (a failed graph read, not a
// malformed request) is reported as a JSON-RPC internal error; params
// that don't decode are reported as invalid params before the handler
// ever runs.
func RegisterCodegraphMethods(s *Server, st *store.Store, q *query.Engine, cb *ctxbuilder.Builder) {
	s.Handle("codegraph.getCallers", func(raw json.RawMessage) (any, *Error) {
		var p NodeIDParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		nodes, err := q.GetCallers(p.ID)
		if err != nil {
			return nil, internalError(err)
		}
		return nodes, nil
	})

	s.Handle("codegraph.getCallees", func(raw json.RawMessage) (any, *Error) {
		var p NodeIDParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		nodes, err := q.GetCallees(p.ID)
		if err != nil {
			return nil, internalError(err)
		}
		return nodes, nil
	})

	s.Handle("codegraph.getDependencies", func(raw json.RawMessage) (any, *Error) {
		var p NodeIDParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		nodes, err := q.GetDependencies(p.ID)
		if err != nil {
			return nil, internalError(err)
		}
		return nodes, nil
	})

	s.Handle("codegraph.getDependents", func(raw json.RawMessage) (any, *Error) {
		var p NodeIDParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		nodes, err := q.GetDependents(p.ID)
		if err != nil {
			return nil, internalError(err)
		}
		return nodes, nil
	})

	s.Handle("codegraph.traverse", func(raw json.RawMessage) (any, *Error) {
		var p TraverseParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		if len(p.Starts) == 0 {
			return nil, &Error{Code: CodeInvalidParams, Message: "starts must be non-empty"}
		}
		sub, err := q.Traverse(p.Starts, query.Options{
			MaxDepth: p.MaxDepth, MaxNodes: p.MaxNodes, EdgeKinds: p.EdgeKinds, NodeKinds: p.NodeKinds,
		})
		if err != nil {
			return nil, internalError(err)
		}
		return sub, nil
	})

	s.Handle("codegraph.impactRadius", func(raw json.RawMessage) (any, *Error) {
		var p ImpactRadiusParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		radius, err := q.GetImpactRadius(p.ID, query.Options{
			MaxDepth: p.MaxDepth, MaxNodes: p.MaxNodes, EdgeKinds: p.EdgeKinds, NodeKinds: p.NodeKinds,
		})
		if err != nil {
			return nil, internalError(err)
		}
		return radius, nil
	})

	s.Handle("codegraph.findPaths", func(raw json.RawMessage) (any, *Error) {
		var p FindPathsParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		if p.From == "" || p.To == "" {
			return nil, &Error{Code: CodeInvalidParams, Message: "from and to are required"}
		}
		paths, err := q.FindPaths(p.From, p.To, p.MaxDepth, p.MaxPaths)
		if err != nil {
			return nil, internalError(err)
		}
		return paths, nil
	})

	s.Handle("codegraph.searchNodes", func(raw json.RawMessage) (any, *Error) {
		var p SearchNodesParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		if p.Text == "" {
			return nil, &Error{Code: CodeInvalidParams, Message: "text is required"}
		}
		results, err := q.SearchNodes(p.Text, query.SearchOptions{Kinds: p.Kinds, Limit: p.Limit})
		if err != nil {
			return nil, internalError(err)
		}
		return results, nil
	})

	s.Handle("codegraph.buildContext", func(raw json.RawMessage) (any, *Error) {
		var p BuildContextParams
		if err := decodeParams(raw, &p); err != nil {
			return nil, err
		}
		if p.Task == "" {
			return nil, &Error{Code: CodeInvalidParams, Message: "task is required"}
		}
		doc, err := cb.BuildContext(context.Background(), p.Task, ctxbuilder.Options{
			SearchLimit:      p.SearchLimit,
			TraversalDepth:   p.TraversalDepth,
			MaxNodes:         p.MaxNodes,
			MaxCodeBlocks:    p.MaxCodeBlocks,
			MaxCodeBlockSize: p.MaxCodeBlockSize,
		})
		if err != nil {
			return nil, internalError(err)
		}
		return doc, nil
	})

	s.Handle("codegraph.status", func(raw json.RawMessage) (any, *Error) {
		schema, err := st.GetSchema()
		if err != nil {
			return nil, internalError(err)
		}
		return schema, nil
	})
}
