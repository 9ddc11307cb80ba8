package extractor

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/parser"
)

// extractDocstring implements step 5 of the traversal protocol: walk
// preceding sibling comments contiguously, strip comment markers, join with
// newlines. Languages that attach a docstring as the first statement of the
// body (Python, Elixir) fall back to that when no leading comment exists.
func (w *walker) extractDocstring(node *tree_sitter.Node) string {
	var lines []string
	sib := node.PrevSibling()
	for sib != nil && strings.Contains(sib.Kind(), "comment") {
		lines = append([]string{stripCommentMarkers(parser.NodeText(sib, w.source))}, lines...)
		sib = sib.PrevSibling()
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n")
	}

	if w.spec.BodyField == "" {
		return ""
	}
	body := node.ChildByFieldName(w.spec.BodyField)
	return leadingStringDocstring(body, w.source)
}

// stripCommentMarkers removes the comment delimiters common across the
// supported languages' line and block comment syntax.
func stripCommentMarkers(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, "/**"):
		s = strings.TrimPrefix(s, "/**")
	case strings.HasPrefix(s, "/*"):
		s = strings.TrimPrefix(s, "/*")
	case strings.HasPrefix(s, "///"):
		s = strings.TrimPrefix(s, "///")
	case strings.HasPrefix(s, "//"):
		s = strings.TrimPrefix(s, "//")
	case strings.HasPrefix(s, "#"):
		s = strings.TrimPrefix(s, "#")
	}
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

// leadingStringDocstring reports the text of a body's first statement when
// that statement is a bare string literal, per Python/Elixir-style
// docstring convention. Anything else as the first statement means there is
// no docstring.
func leadingStringDocstring(body *tree_sitter.Node, source []byte) string {
	if body == nil {
		return ""
	}
	for i := uint(0); i < body.ChildCount(); i++ {
		child := body.Child(i)
		if child == nil || strings.Contains(child.Kind(), "comment") {
			continue
		}
		target := child
		if child.Kind() == "expression_statement" && child.ChildCount() > 0 {
			target = child.Child(0)
		}
		if !strings.Contains(target.Kind(), "string") {
			return ""
		}
		return strings.Trim(parser.NodeText(target, source), "\"'")
	}
	return ""
}
