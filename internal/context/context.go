// Package ctxbuilder implements the Context Builder: given a
// natural-language task description, it produces a bounded document or
// structured record representing the subgraph most relevant to the task,
// per spec.md §4.8's five-step pipeline. Named ctxbuilder rather than
// context (its directory's name) to avoid shadowing the standard
// library's context package every file here also imports.
package ctxbuilder

import (
	"context"
	"sort"

	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/query"
	"github.com/codegraph/codegraph/internal/store"
)

// Defaults for the bounds spec.md §4.8 names but does not pin numerically.
const (
	DefaultSearchLimit      = 5
	DefaultTraversalDepth   = 2
	DefaultMaxNodes         = 50
	DefaultMaxCodeBlocks    = 5
	DefaultMaxCodeBlockSize = 2000
)

// Options bounds a build_context call.
type Options struct {
	SearchLimit      int
	TraversalDepth   int
	MaxNodes         int
	MaxCodeBlocks    int
	MaxCodeBlockSize int
}

func (o Options) normalized() Options {
	if o.SearchLimit <= 0 {
		o.SearchLimit = DefaultSearchLimit
	}
	if o.TraversalDepth <= 0 {
		o.TraversalDepth = DefaultTraversalDepth
	}
	if o.MaxNodes <= 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.MaxCodeBlocks <= 0 {
		o.MaxCodeBlocks = DefaultMaxCodeBlocks
	}
	if o.MaxCodeBlockSize <= 0 {
		o.MaxCodeBlockSize = DefaultMaxCodeBlockSize
	}
	return o
}

// EntryPoint is one of the nodes the lexical search step chose to expand
// from.
type EntryPoint struct {
	Node  *graphmodel.Node
	Score int
}

// CodeBlock is a loaded, possibly-truncated source slice for one entry
// point.
type CodeBlock struct {
	NodeID    string
	FilePath  string
	StartLine int
	EndLine   int
	Source    string
	Truncated bool
}

// Document is the bounded record build_context produces: the query echo,
// the entry points chosen, related symbols grouped by file, loaded code
// blocks, and the full expansion subgraph for callers that want the JSON
// record rather than the compact form.
type Document struct {
	QueryText     string
	EntryPoints   []*EntryPoint
	RelatedByFile map[string][]*graphmodel.Node
	CodeBlocks    []*CodeBlock
	Subgraph      *query.Subgraph
}

// Builder is the Context Builder, bound to one Graph Store and project
// root (code blocks are loaded from disk relative to it).
type Builder struct {
	Store *store.Store
	Query *query.Engine
	Root  string
}

// New returns a Context Builder rooted at root, reusing st's Query Engine
// wiring.
func New(st *store.Store, root string) *Builder {
	return &Builder{Store: st, Query: query.New(st), Root: root}
}

// BuildContext runs spec.md §4.8's five-step pipeline: extract search
// terms, choose up to opts.SearchLimit entry points by lexical search,
// expand each over the significant edge kinds up to opts.TraversalDepth
// capped at opts.MaxNodes total, load up to opts.MaxCodeBlocks code
// blocks (entry points only, not every expansion node), and assemble the
// bounded Document.
func (b *Builder) BuildContext(ctx context.Context, task string, opts Options) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.normalized()

	terms := query.Tokenize(task)
	doc := &Document{
		QueryText:     task,
		RelatedByFile: map[string][]*graphmodel.Node{},
	}
	if len(terms) == 0 {
		return doc, nil
	}

	hits, err := b.Query.SearchNodes(task, query.SearchOptions{Limit: opts.SearchLimit})
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return doc, nil
	}

	entryIDs := make([]string, 0, len(hits))
	for _, h := range hits {
		doc.EntryPoints = append(doc.EntryPoints, &EntryPoint{Node: h.Node, Score: h.Score})
		entryIDs = append(entryIDs, h.Node.ID)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub, err := b.Query.Traverse(entryIDs, query.Options{
		MaxDepth:  opts.TraversalDepth,
		MaxNodes:  opts.MaxNodes,
		EdgeKinds: graphmodel.SignificantEdgeKinds,
	})
	if err != nil {
		return nil, err
	}
	doc.Subgraph = sub

	entrySet := map[string]bool{}
	for _, id := range entryIDs {
		entrySet[id] = true
	}
	for _, n := range sub.Nodes {
		if entrySet[n.ID] {
			continue
		}
		doc.RelatedByFile[n.FilePath] = append(doc.RelatedByFile[n.FilePath], n)
	}
	for path := range doc.RelatedByFile {
		sortNodesByLine(doc.RelatedByFile[path])
	}

	for i, h := range hits {
		if i >= opts.MaxCodeBlocks {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		block, err := b.loadCodeBlock(h.Node, opts.MaxCodeBlockSize)
		if err != nil {
			continue
		}
		doc.CodeBlocks = append(doc.CodeBlocks, block)
	}

	return doc, nil
}

func sortNodesByLine(nodes []*graphmodel.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].StartLine != nodes[j].StartLine {
			return nodes[i].StartLine < nodes[j].StartLine
		}
		return nodes[i].ID < nodes[j].ID
	})
}
