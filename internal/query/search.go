package query

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/store"
)

// kindBonus ranks node kinds for search_nodes per spec.md §4.7: functions
// and methods top, routes/components near the top, parameters and files
// contribute nothing.
var kindBonus = map[graphmodel.NodeKind]int{
	graphmodel.KindFunction:  100,
	graphmodel.KindMethod:    100,
	graphmodel.KindRoute:     80,
	graphmodel.KindComponent: 80,
	graphmodel.KindClass:     70,
	graphmodel.KindInterface: 70,
	graphmodel.KindStruct:    70,
	graphmodel.KindTrait:     70,
	graphmodel.KindProtocol:  70,
	graphmodel.KindEnum:      60,
	graphmodel.KindTypeAlias: 60,
	graphmodel.KindConstant:  40,
	graphmodel.KindVariable:  40,
	graphmodel.KindProperty:  40,
	graphmodel.KindField:     40,
	graphmodel.KindNamespace: 30,
	graphmodel.KindModule:    30,
	graphmodel.KindImport:    10,
	graphmodel.KindExport:    10,
	graphmodel.KindParameter: 0,
	graphmodel.KindFile:      0,
}

// stopWords are dropped from a search query before matching, along with
// any term shorter than two characters, per spec.md §4.7.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "in": true, "on": true,
	"to": true, "for": true, "and": true, "or": true, "is": true, "it": true,
	"this": true, "that": true, "with": true, "as": true, "at": true, "by": true,
}

var punctuation = regexp.MustCompile(`[^\w]+`)

// SearchResult is one ranked search_nodes hit.
type SearchResult struct {
	Node  *graphmodel.Node
	Score int
}

// SearchOptions narrows a search_nodes call.
type SearchOptions struct {
	Kinds []graphmodel.NodeKind
	Limit int
}

// SearchNodes performs spec.md §4.7's search_nodes: lexical ranking
// combining kind bonus, path relevance, and textual match against
// name/qualified_name, after stop-word removal and punctuation stripping
// on the query.
func (e *Engine) SearchNodes(text string, opts SearchOptions) ([]*SearchResult, error) {
	terms := Tokenize(text)
	if len(terms) == 0 {
		return nil, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultMaxNodes
	}

	candidates, err := e.Store.SearchCandidates(store.SearchParams{
		Kinds: opts.Kinds,
		Limit: 5000,
	})
	if err != nil {
		return nil, &errs.DatabaseError{Op: "SearchCandidates", Err: err}
	}

	var results []*SearchResult
	for _, n := range candidates {
		score, matched := scoreNode(n, terms)
		if !matched {
			continue
		}
		results = append(results, &SearchResult{Node: n, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].Node.FilePath) != len(results[j].Node.FilePath) {
			return len(results[i].Node.FilePath) < len(results[j].Node.FilePath)
		}
		return results[i].Node.ID < results[j].Node.ID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Tokenize strips punctuation, lowercases, removes stop words, and drops
// terms under two characters, per spec.md §4.7. Exposed for
// internal/context's search-term extraction step, which needs the same
// cleanup ahead of its own lexical search call.
func Tokenize(text string) []string {
	cleaned := punctuation.ReplaceAllString(strings.ToLower(text), " ")
	var terms []string
	for _, t := range strings.Fields(cleaned) {
		if len(t) < 2 || stopWords[t] {
			continue
		}
		terms = append(terms, t)
	}
	return terms
}

// scoreNode combines kind bonus, path relevance, and textual match into
// one score. A node with no term matching its name, qualified name, or
// path does not make the result set at all.
func scoreNode(n *graphmodel.Node, terms []string) (int, bool) {
	score := kindBonus[n.Kind]
	matched := false

	name := strings.ToLower(n.Name)
	qn := strings.ToLower(n.QualifiedName)
	base := strings.ToLower(filepath.Base(n.FilePath))
	dir := strings.ToLower(filepath.Dir(n.FilePath))

	for _, term := range terms {
		switch {
		case name == term:
			score += 50
			matched = true
		case strings.Contains(name, term):
			score += 30
			matched = true
		case strings.Contains(qn, term):
			score += 20
			matched = true
		}

		switch {
		case strings.Contains(base, term):
			score += 15
			matched = true
		case strings.Contains(dir, term):
			score += 8
			matched = true
		}
	}
	return score, matched
}
