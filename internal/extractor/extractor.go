// Package extractor walks a parsed source file's AST once and produces the
// nodes, edges and unresolved references that make up its contribution to
// the graph, per the per-language data-driven rule tables in internal/lang.
package extractor

import (
	"time"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codegraph/codegraph/internal/errs"
	"github.com/codegraph/codegraph/internal/graphmodel"
	"github.com/codegraph/codegraph/internal/lang"
	"github.com/codegraph/codegraph/internal/parser"
)

// ExtractionResult is everything a single file contributes to the graph.
type ExtractionResult struct {
	Nodes          []*graphmodel.Node
	Edges          []*graphmodel.Edge
	UnresolvedRefs []*graphmodel.UnresolvedRef
	Errors         []error
	Duration       time.Duration
}

// Extract parses source and walks it depth-first, maintaining a stack of
// currently-open containing node ids, per the traversal protocol. A parse
// failure terminates extraction for this file and is recorded as an error;
// it never panics and never returns a nil result.
func Extract(filePath string, source []byte, language lang.Language) *ExtractionResult {
	start := time.Now()
	result := &ExtractionResult{}
	defer func() { result.Duration = time.Since(start) }()

	tree, err := parser.Parse(language, source)
	if err != nil {
		result.Errors = append(result.Errors, &errs.ParseError{Path: filePath, Language: string(language), Err: err})
		return result
	}
	defer tree.Close()

	spec := lang.ForLanguage(language)
	if spec == nil {
		return result
	}

	w := &walker{
		spec:     spec,
		language: language,
		source:   source,
		filePath: filePath,
		result:   result,
	}
	w.pushModule(tree.RootNode())
	for i := uint(0); i < tree.RootNode().ChildCount(); i++ {
		if child := tree.RootNode().Child(i); child != nil {
			w.walk(child)
		}
	}
	w.pop()
	return result
}

// walker carries the per-file extraction state: the stack of containing
// node ids/names/kinds, and the result being built.
type walker struct {
	spec     *lang.LanguageSpec
	language lang.Language
	source   []byte
	filePath string
	result   *ExtractionResult

	idStack   []string
	nameStack []string
	kindStack []graphmodel.NodeKind
}

func (w *walker) containerID() string {
	if len(w.idStack) == 0 {
		return ""
	}
	return w.idStack[len(w.idStack)-1]
}

func (w *walker) containerKind() (graphmodel.NodeKind, bool) {
	if len(w.kindStack) == 0 {
		return "", false
	}
	return w.kindStack[len(w.kindStack)-1], true
}

func (w *walker) push(id, name string, kind graphmodel.NodeKind) {
	w.idStack = append(w.idStack, id)
	w.nameStack = append(w.nameStack, name)
	w.kindStack = append(w.kindStack, kind)
}

func (w *walker) pop() {
	w.idStack = w.idStack[:len(w.idStack)-1]
	w.nameStack = w.nameStack[:len(w.nameStack)-1]
	w.kindStack = w.kindStack[:len(w.kindStack)-1]
}

// pushModule creates the synthetic file-scope container every other node
// attaches to, per the traversal protocol's "file-scope synthetic node"
// fallback for imports and calls with no other enclosing definition.
func (w *walker) pushModule(root *tree_sitter.Node) {
	id := graphmodel.NodeID(w.filePath, graphmodel.KindModule, w.filePath, 0)
	n := &graphmodel.Node{
		ID:            id,
		Kind:          graphmodel.KindModule,
		Name:          baseName(w.filePath),
		QualifiedName: w.filePath,
		FilePath:      w.filePath,
		Language:      string(w.language),
		StartLine:     int(root.StartPosition().Row) + 1,
		EndLine:       int(root.EndPosition().Row) + 1,
		UpdatedAt:     time.Now(),
	}
	w.result.Nodes = append(w.result.Nodes, n)
	w.push(id, "", graphmodel.KindModule)
}

// walk dispatches on node kind per the per-language rule table, following
// the traversal protocol in order: type declarations, function/method
// forms, imports, calls, then a plain recursive descent for everything
// else.
func (w *walker) walk(node *tree_sitter.Node) {
	if node == nil {
		return
	}
	kind := node.Kind()
	spec := w.spec

	switch {
	case contains(spec.EnumNodeTypes, kind):
		w.handleTypeDecl(node, graphmodel.KindEnum)
	case contains(spec.StructNodeTypes, kind):
		w.handleTypeDecl(node, graphmodel.KindStruct)
	case contains(spec.InterfaceNodeTypes, kind):
		w.handleTypeDecl(node, graphmodel.KindInterface)
	case contains(spec.ClassNodeTypes, kind):
		w.handleTypeDecl(node, graphmodel.KindClass)
	case contains(spec.MethodNodeTypes, kind):
		w.handleFunc(node, true)
	case contains(spec.FunctionNodeTypes, kind):
		w.handleFunc(node, false)
	case contains(spec.EnumMemberNodeTypes, kind):
		w.handleLeaf(node, graphmodel.KindEnumMember)
		w.walkChildren(node)
	case contains(spec.FieldNodeTypes, kind):
		w.handleLeaf(node, graphmodel.KindField)
		w.walkChildren(node)
	case contains(spec.ImportNodeTypes, kind) || contains(spec.ImportFromTypes, kind):
		w.handleImport(node)
	case contains(spec.CallNodeTypes, kind):
		w.handleCall(node)
		w.walkChildren(node)
	default:
		w.walkChildren(node)
	}
}

func (w *walker) walkChildren(node *tree_sitter.Node) {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil {
			w.walk(child)
		}
	}
}

// handleTypeDecl covers class/struct/interface/enum declarations: create
// the node, record extends/implements as unresolved references, push,
// recurse into the body, pop.
func (w *walker) handleTypeDecl(node *tree_sitter.Node, kind graphmodel.NodeKind) {
	name := w.extractName(node)
	if name == "" {
		name = w.anonymousSentinel()
	}

	// Some grammars (Go's type_spec) wrap the actual struct/interface/enum
	// node behind a named declaration that carries the identifier. Resolve
	// through to it so the node gets the specific kind and its body is
	// walked directly, instead of creating a second, unnamed node for the
	// wrapped struct/interface/enum when the generic dispatch reaches it.
	body := node
	if underlying := w.resolveUnderlyingType(node); underlying != nil {
		body = underlying
		switch {
		case contains(w.spec.StructNodeTypes, underlying.Kind()):
			kind = graphmodel.KindStruct
		case contains(w.spec.InterfaceNodeTypes, underlying.Kind()):
			kind = graphmodel.KindInterface
		case contains(w.spec.EnumNodeTypes, underlying.Kind()):
			kind = graphmodel.KindEnum
		}
	}

	startLine := rowToLine(node.StartPosition().Row)
	id := graphmodel.NodeID(w.filePath, kind, name, startLine)
	qn := graphmodel.QualifiedName(w.filePath, w.nameStack, name)
	vis, exported := w.visibilityAndExport(node, name)

	n := &graphmodel.Node{
		ID:            id,
		Kind:          kind,
		Name:          name,
		QualifiedName: qn,
		FilePath:      w.filePath,
		Language:      string(w.language),
		StartLine:     startLine,
		EndLine:       rowToLine(node.EndPosition().Row),
		StartColumn:   int(node.StartPosition().Column),
		EndColumn:     int(node.EndPosition().Column),
		Docstring:     w.extractDocstring(node),
		CodeSnippet:   graphmodel.Snippet(parser.NodeText(node, w.source)),
		CodeHash:      graphmodel.StrongDigest(w.source[node.StartByte():node.EndByte()]),
		Visibility:    vis,
		IsExported:    exported,
		UpdatedAt:     time.Now(),
	}
	w.addNode(n)
	w.addContains(w.containerID(), id, startLine)

	w.recordClauseRefs(node, w.spec.ExtendsField, id, graphmodel.EdgeExtends, startLine)
	w.recordClauseRefs(node, w.spec.ImplementsField, id, graphmodel.EdgeImplements, startLine)

	w.push(id, name, kind)
	w.walkChildren(body)
	w.pop()
}

// resolveUnderlyingType looks for a child (by the field names typical of
// "named declaration wraps concrete type" grammars) whose kind is itself a
// struct/interface/enum node type, so handleTypeDecl can fold the two into
// one node instead of creating a nested unnamed duplicate.
func (w *walker) resolveUnderlyingType(node *tree_sitter.Node) *tree_sitter.Node {
	for _, field := range []string{"type", "value"} {
		child := node.ChildByFieldName(field)
		if child == nil {
			continue
		}
		k := child.Kind()
		if contains(w.spec.StructNodeTypes, k) || contains(w.spec.InterfaceNodeTypes, k) || contains(w.spec.EnumNodeTypes, k) {
			return child
		}
	}
	return nil
}

// handleFunc covers function and method declarations. forcedMethod is true
// when the node's own kind is in MethodNodeTypes (the language's grammar
// distinguishes methods syntactically); otherwise the method/function split
// follows the innermost containing node and the presence of a receiver.
func (w *walker) handleFunc(node *tree_sitter.Node, forcedMethod bool) {
	name := w.extractName(node)
	anonymous := name == ""

	hasReceiver := w.spec.ReceiverField != "" && node.ChildByFieldName(w.spec.ReceiverField) != nil
	containerKind, hasContainer := w.containerKind()
	insideType := hasContainer && isTypeLike(containerKind)

	// Only the module (the file-scope synthetic container) counts as "top
	// level" for the anonymous-function skip; anything nested inside a
	// function, class or block still gets walked for its own definitions
	// and calls even if it has no name worth recording as a node.
	topLevel := !hasContainer || containerKind == graphmodel.KindModule
	if anonymous && topLevel && !forcedMethod && !hasReceiver {
		w.walkChildren(node)
		return
	}

	if anonymous {
		name = w.anonymousSentinel()
	}

	isMethod := forcedMethod || hasReceiver || insideType
	kind := graphmodel.KindFunction
	if isMethod {
		kind = graphmodel.KindMethod
	}

	startLine := rowToLine(node.StartPosition().Row)
	id := graphmodel.NodeID(w.filePath, kind, name, startLine)
	qn := graphmodel.QualifiedName(w.filePath, w.nameStack, name)
	vis, exported := w.visibilityAndExport(node, name)

	signature := name
	if w.spec.ParametersField != "" {
		if p := node.ChildByFieldName(w.spec.ParametersField); p != nil {
			signature += parser.NodeText(p, w.source)
		}
	}
	var meta map[string]any
	if w.spec.ReturnTypeField != "" {
		if rt := node.ChildByFieldName(w.spec.ReturnTypeField); rt != nil {
			rtText := parser.NodeText(rt, w.source)
			signature += " " + rtText
			meta = map[string]any{"return_type": rtText}
		}
	}

	n := &graphmodel.Node{
		ID:            id,
		Kind:          kind,
		Name:          name,
		QualifiedName: qn,
		FilePath:      w.filePath,
		Language:      string(w.language),
		StartLine:     startLine,
		EndLine:       rowToLine(node.EndPosition().Row),
		StartColumn:   int(node.StartPosition().Column),
		EndColumn:     int(node.EndPosition().Column),
		Signature:     signature,
		Docstring:     w.extractDocstring(node),
		CodeSnippet:   graphmodel.Snippet(parser.NodeText(node, w.source)),
		CodeHash:      graphmodel.StrongDigest(w.source[node.StartByte():node.EndByte()]),
		Metadata:      meta,
		Visibility:    vis,
		IsExported:    exported,
		IsAsync:       w.spec.AsyncKeyword != "" && hasChildText(node, w.source, w.spec.AsyncKeyword),
		IsStatic:      w.spec.StaticKeyword != "" && hasChildText(node, w.source, w.spec.StaticKeyword),
		UpdatedAt:     time.Now(),
	}
	w.addNode(n)
	w.addContains(w.containerID(), id, startLine)

	w.push(id, name, kind)
	body := node
	if w.spec.BodyField != "" {
		if b := node.ChildByFieldName(w.spec.BodyField); b != nil {
			body = b
		}
	}
	w.walkChildren(body)
	w.pop()
}

// handleLeaf covers enum members and struct/class fields: no containment
// scope of their own, just a node plus a contains edge from the parent.
func (w *walker) handleLeaf(node *tree_sitter.Node, kind graphmodel.NodeKind) {
	name := w.extractName(node)
	if name == "" {
		return
	}
	startLine := rowToLine(node.StartPosition().Row)
	id := graphmodel.NodeID(w.filePath, kind, name, startLine)
	qn := graphmodel.QualifiedName(w.filePath, w.nameStack, name)
	vis, exported := w.visibilityAndExport(node, name)

	w.addNode(&graphmodel.Node{
		ID:            id,
		Kind:          kind,
		Name:          name,
		QualifiedName: qn,
		FilePath:      w.filePath,
		Language:      string(w.language),
		StartLine:     startLine,
		EndLine:       rowToLine(node.EndPosition().Row),
		CodeSnippet:   graphmodel.Snippet(parser.NodeText(node, w.source)),
		Visibility:    vis,
		IsExported:    exported,
		UpdatedAt:     time.Now(),
	})
	w.addContains(w.containerID(), id, startLine)
}

// handleImport records an unresolved `imports` reference on the innermost
// containing node for each distinct module/path token found in the import
// statement.
func (w *walker) handleImport(node *tree_sitter.Node) {
	startLine := rowToLine(node.StartPosition().Row)
	for _, target := range importTargets(node, w.source) {
		w.result.UnresolvedRefs = append(w.result.UnresolvedRefs, &graphmodel.UnresolvedRef{
			FromNodeID:    w.containerID(),
			ReferenceName: target,
			ReferenceKind: graphmodel.EdgeImports,
			Line:          startLine,
			FilePath:      w.filePath,
			Language:      string(w.language),
		})
	}
}

// handleCall records an unresolved `calls` reference on the innermost
// containing node, using the callee's textual name.
func (w *walker) handleCall(node *tree_sitter.Node) {
	calleeText := calleeText(node, w.source)
	if calleeText == "" {
		return
	}
	startLine := rowToLine(node.StartPosition().Row)
	w.result.UnresolvedRefs = append(w.result.UnresolvedRefs, &graphmodel.UnresolvedRef{
		FromNodeID:    w.containerID(),
		ReferenceName: calleeReferenceName(calleeText),
		ReferenceKind: graphmodel.EdgeCalls,
		Line:          startLine,
		Column:        int(node.StartPosition().Column),
		FilePath:      w.filePath,
		Language:      string(w.language),
	})
}

// recordClauseRefs handles an extends/implements field: every identifier it
// names produces one unresolved reference of kind refKind.
func (w *walker) recordClauseRefs(node *tree_sitter.Node, field string, fromID string, refKind graphmodel.EdgeKind, line int) {
	if field == "" {
		return
	}
	clause := node.ChildByFieldName(field)
	if clause == nil {
		return
	}
	for _, name := range collectIdentifiers(clause, w.source) {
		w.result.UnresolvedRefs = append(w.result.UnresolvedRefs, &graphmodel.UnresolvedRef{
			FromNodeID:    fromID,
			ReferenceName: name,
			ReferenceKind: refKind,
			Line:          line,
			FilePath:      w.filePath,
			Language:      string(w.language),
		})
	}
}

func (w *walker) addNode(n *graphmodel.Node) {
	w.result.Nodes = append(w.result.Nodes, n)
}

func (w *walker) addContains(fromID, toID string, line int) {
	if fromID == "" {
		return
	}
	w.result.Edges = append(w.result.Edges, &graphmodel.Edge{
		SourceID:   fromID,
		TargetID:   toID,
		Kind:       graphmodel.EdgeContains,
		Resolved:   true,
		LineNumber: line,
	})
}

func (w *walker) anonymousSentinel() string {
	if w.spec.AnonymousNameSentinel != "" {
		return w.spec.AnonymousNameSentinel
	}
	return "<anonymous>"
}

func isTypeLike(kind graphmodel.NodeKind) bool {
	switch kind {
	case graphmodel.KindClass, graphmodel.KindStruct, graphmodel.KindInterface, graphmodel.KindTrait:
		return true
	default:
		return false
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func rowToLine(row uint) int {
	return int(row) + 1
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
