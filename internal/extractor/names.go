package extractor

import (
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/parser"
)

// extractName implements the name-extraction fallback chain: the declared
// name field, then the first identifier-like child. An empty result means
// the caller should apply the anonymous sentinel.
func (w *walker) extractName(node *tree_sitter.Node) string {
	if w.spec.NameField != "" {
		if n := node.ChildByFieldName(w.spec.NameField); n != nil {
			if text := strings.TrimSpace(parser.NodeText(n, w.source)); text != "" {
				return text
			}
		}
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && isIdentifierLike(child.Kind()) {
			if text := strings.TrimSpace(parser.NodeText(child, w.source)); text != "" {
				return text
			}
		}
	}
	return ""
}

func isIdentifierLike(kind string) bool {
	return strings.Contains(strings.ToLower(kind), "identifier")
}

// visibilityAndExport decides a declaration's Visibility and IsExported
// flag from its name and, where relevant, a modifier keyword search among
// its own children.
func (w *walker) visibilityAndExport(node *tree_sitter.Node, name string) (graphmodel.Visibility, bool) {
	if w.language == lang.Python {
		switch {
		case strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__"):
			return graphmodel.VisibilityPrivate, false
		case strings.HasPrefix(name, "_"):
			return graphmodel.VisibilityProtected, false
		default:
			return graphmodel.VisibilityPublic, true
		}
	}

	exported := false
	switch w.spec.ExportPredicate {
	case "uppercase":
		exported = name != "" && unicode.IsUpper(rune(name[0]))
	case "no-leading-underscore":
		exported = name != "" && !strings.HasPrefix(name, "_")
	case "explicit-keyword":
		exported = hasAncestorKind(node, "export", 4)
	case "public-modifier":
		exported = hasChildText(node, w.source, "public")
	case "pub-keyword":
		exported = hasChildText(node, w.source, "pub") || hasChildKind(node, "visibility_modifier")
	case "default-exported":
		exported = true
	}

	if exported {
		return graphmodel.VisibilityPublic, true
	}
	return graphmodel.VisibilityPrivate, false
}

// hasChildText reports whether any immediate child of node (or, one level
// deeper, any child of a "modifiers"-ish child) has exactly the given text.
// This covers both grammars that expose a keyword as its own token child
// and grammars that group keywords under a modifiers list node.
func hasChildText(node *tree_sitter.Node, source []byte, text string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if parser.NodeText(child, source) == text {
			return true
		}
		if strings.Contains(child.Kind(), "modifier") {
			for j := uint(0); j < child.ChildCount(); j++ {
				gc := child.Child(j)
				if gc != nil && parser.NodeText(gc, source) == text {
					return true
				}
			}
		}
	}
	return false
}

func hasChildKind(node *tree_sitter.Node, kind string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == kind {
			return true
		}
	}
	return false
}

// hasAncestorKind walks up to maxDepth parents looking for a kind whose
// name contains substr.
func hasAncestorKind(node *tree_sitter.Node, substr string, maxDepth int) bool {
	n := node
	for i := 0; i < maxDepth && n != nil; i++ {
		if strings.Contains(n.Kind(), substr) {
			return true
		}
		n = n.Parent()
	}
	return false
}

// collectIdentifiers walks node's subtree and returns the text of every
// leaf whose kind looks like an identifier, in source order, deduplicated.
func collectIdentifiers(node *tree_sitter.Node, source []byte) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if n.ChildCount() == 0 && isIdentifierLike(n.Kind()) {
			text := parser.NodeText(n, source)
			if text != "" && !seen[text] {
				seen[text] = true
				out = append(out, text)
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return out
}

// calleeText returns the text of a call expression's callee, trying the
// field names common across tree-sitter call grammars before falling back
// to the call node's first child.
func calleeText(node *tree_sitter.Node, source []byte) string {
	for _, field := range []string{"function", "method", "name", "callee"} {
		if n := node.ChildByFieldName(field); n != nil {
			if text := strings.TrimSpace(parser.NodeText(n, source)); text != "" {
				return text
			}
		}
	}
	if node.ChildCount() > 0 {
		if c := node.Child(0); c != nil {
			return strings.TrimSpace(parser.NodeText(c, source))
		}
	}
	return ""
}

// calleeReferenceName reduces callee text to the name the spec wants
// recorded: member access ("obj.method") yields just the property name;
// scoped calls ("Scope::func") keep the scope.
func calleeReferenceName(calleeText string) string {
	if idx := strings.LastIndex(calleeText, "::"); idx >= 0 {
		return calleeText
	}
	if idx := strings.LastIndex(calleeText, "->"); idx >= 0 {
		return calleeText[idx+2:]
	}
	if idx := strings.LastIndex(calleeText, "."); idx >= 0 {
		return calleeText[idx+1:]
	}
	return calleeText
}

// importTargets extracts the module/path strings named by an import
// statement: string literals first (the common case across most grammars),
// falling back to the statement's own text when none are found.
func importTargets(node *tree_sitter.Node, source []byte) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if strings.Contains(n.Kind(), "string") && n.ChildCount() == 0 {
			text := unquote(parser.NodeText(n, source))
			if text != "" && !seen[text] {
				seen[text] = true
				out = append(out, text)
			}
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	if len(out) > 0 {
		return out
	}

	text := strings.TrimSpace(parser.NodeText(node, source))
	text = strings.TrimSuffix(text, ";")
	if text == "" {
		return nil
	}
	return []string{text}
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, "\"'`")
}
