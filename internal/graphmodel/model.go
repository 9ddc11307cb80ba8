// Package graphmodel defines the node/edge/file schema shared by the
// extractor, the graph store, and every query surface above it.
package graphmodel

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// NodeKind enumerates the kinds of code entity the graph can hold.
type NodeKind string

const (
	KindFile       NodeKind = "file"
	KindModule     NodeKind = "module"
	KindNamespace  NodeKind = "namespace"
	KindClass      NodeKind = "class"
	KindInterface  NodeKind = "interface"
	KindTrait      NodeKind = "trait"
	KindStruct     NodeKind = "struct"
	KindEnum       NodeKind = "enum"
	KindFunction   NodeKind = "function"
	KindMethod     NodeKind = "method"
	KindVariable   NodeKind = "variable"
	KindConstant   NodeKind = "constant"
	KindProperty   NodeKind = "property"
	KindField      NodeKind = "field"
	KindParameter  NodeKind = "parameter"
	KindTypeAlias  NodeKind = "type_alias"
	KindComponent  NodeKind = "component"
	KindRoute      NodeKind = "route"
	KindImport     NodeKind = "import"
	KindExport     NodeKind = "export"
	KindProtocol   NodeKind = "protocol"
	KindEnumMember NodeKind = "enum_member"
)

// Visibility classifies a node's access level.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
)

// EdgeKind enumerates the directed relationships the graph can hold.
type EdgeKind string

const (
	EdgeContains     EdgeKind = "contains"
	EdgeImports      EdgeKind = "imports"
	EdgeExports      EdgeKind = "exports"
	EdgeCalls        EdgeKind = "calls"
	EdgeExtends      EdgeKind = "extends"
	EdgeImplements   EdgeKind = "implements"
	EdgeReturnsType  EdgeKind = "returns_type"
	EdgeThrows       EdgeKind = "throws"
	EdgeReads        EdgeKind = "reads"
	EdgeWrites       EdgeKind = "writes"
	EdgeRenders      EdgeKind = "renders"
	EdgeInstantiates EdgeKind = "instantiates"
	EdgeDecorates    EdgeKind = "decorates"
	EdgeDependsOn    EdgeKind = "depends_on"
	EdgeReferences   EdgeKind = "references"
)

// DependencyEdgeKinds is the union of edge kinds considered for
// get_dependencies/get_dependents per spec §4.7.
var DependencyEdgeKinds = []EdgeKind{EdgeImports, EdgeCalls, EdgeExtends, EdgeImplements, EdgeReferences}

// SignificantEdgeKinds is the set of edge kinds the Context Builder expands
// across per spec §4.8.
var SignificantEdgeKinds = []EdgeKind{EdgeCalls, EdgeExtends, EdgeImplements, EdgeImports, EdgeReferences}

// Node is a single code entity in the graph.
type Node struct {
	ID            string
	Kind          NodeKind
	Name          string
	QualifiedName string
	FilePath      string
	Language      string

	StartLine   int
	EndLine     int
	StartColumn int
	EndColumn   int

	Signature   string
	Docstring   string
	CodeSnippet string
	CodeHash    string
	Metadata    map[string]any

	Visibility Visibility
	IsExported bool
	IsAsync    bool
	IsStatic   bool

	UpdatedAt time.Time
}

// Edge is a directed, typed relationship between two nodes.
type Edge struct {
	SourceID   string
	TargetID   string
	Kind       EdgeKind
	Resolved   bool
	TargetName string
	LineNumber int
	Metadata   map[string]any
}

// UnresolvedRef is a pending edge whose target is a name, not an id.
type UnresolvedRef struct {
	FromNodeID    string
	ReferenceName string
	ReferenceKind EdgeKind
	Line          int
	Column        int
	FilePath      string
	Language      string
}

// FileRecord is the per-file bookkeeping row.
type FileRecord struct {
	Path        string
	ContentHash string
	Language    string
	Size        int64
	ModifiedAt  time.Time
	IndexedAt   time.Time
	NodeCount   int
	Errors      []string
}

// MaxSnippetLen is the cap on Node.CodeSnippet per spec §3.
const MaxSnippetLen = 500

// NodeID computes the deterministic content-derived node id:
// "<kind>:<digest16(filepath, kind, name, start_line)>".
func NodeID(filePath string, kind NodeKind, name string, startLine int) string {
	h := xxh3.Hash128([]byte(filePath + "\x00" + string(kind) + "\x00" + name + "\x00" + itoa(startLine)))
	b := h.Bytes()
	return string(kind) + ":" + hex.EncodeToString(b[:8])
}

// QualifiedName joins a file path, the stack of enclosing scope names, and a
// node's own name with spec's "::" separator. Empty scope names (the
// file-scope synthetic container contributes none) are skipped rather than
// leaving a blank "::" segment.
func QualifiedName(filePath string, scopeNames []string, name string) string {
	parts := make([]string, 0, len(scopeNames)+2)
	parts = append(parts, filePath)
	for _, s := range scopeNames {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if name != "" {
		parts = append(parts, name)
	}
	return strings.Join(parts, "::")
}

// StrongDigest returns the hex-encoded SHA-256 digest used for both
// file-level content hashes and per-node code hashes.
func StrongDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Snippet truncates source to at most MaxSnippetLen characters.
func Snippet(source string) string {
	if len(source) <= MaxSnippetLen {
		return source
	}
	return source[:MaxSnippetLen]
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
