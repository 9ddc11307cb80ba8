package ctxbuilder

import (
	"fmt"
	"sort"
	"strings"
)

// RenderCompact renders the document as spec.md §4.8's compact structured
// form: query echo, entry points with locations and signatures, related
// symbols grouped by file, then code blocks. This is the human/LLM-facing
// surface; the machine-facing one is the Document value itself, with the
// full subgraph attached, marshaled as JSON by the caller.
func (d *Document) RenderCompact() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Context for: %s\n\n", d.QueryText)

	sb.WriteString("## Entry Points\n\n")
	if len(d.EntryPoints) == 0 {
		sb.WriteString("(none found)\n\n")
	}
	for _, ep := range d.EntryPoints {
		n := ep.Node
		sig := n.Signature
		if sig == "" {
			sig = n.Name
		}
		fmt.Fprintf(&sb, "- `%s` (%s) — %s:%d\n  %s\n", n.QualifiedName, n.Kind, n.FilePath, n.StartLine, sig)
	}
	sb.WriteString("\n")

	if len(d.RelatedByFile) > 0 {
		sb.WriteString("## Related Symbols\n\n")
		files := make([]string, 0, len(d.RelatedByFile))
		for f := range d.RelatedByFile {
			files = append(files, f)
		}
		sort.Strings(files)
		for _, f := range files {
			fmt.Fprintf(&sb, "### %s\n\n", f)
			for _, n := range d.RelatedByFile[f] {
				fmt.Fprintf(&sb, "- `%s` (%s), line %d\n", n.Name, n.Kind, n.StartLine)
			}
			sb.WriteString("\n")
		}
	}

	if len(d.CodeBlocks) > 0 {
		sb.WriteString("## Code\n\n")
		for _, cb := range d.CodeBlocks {
			fmt.Fprintf(&sb, "### %s (lines %d-%d)\n\n```\n%s```\n\n", cb.FilePath, cb.StartLine, cb.EndLine, cb.Source)
		}
	}

	return sb.String()
}
