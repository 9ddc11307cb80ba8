// Package parser wraps tree-sitter in a per-language grammar registry:
// lazily constructed, pooled parsers that degrade gracefully when a
// particular grammar cannot be loaded instead of taking the whole
// extraction run down with it.
package parser

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_dart "github.com/UserNobody14/tree-sitter-dart/bindings/go"
	tree_sitter_dockerfile "github.com/camdencheek/tree-sitter-dockerfile/bindings/go"
	tree_sitter_elixir "github.com/tree-sitter/tree-sitter-elixir/bindings/go"
	tree_sitter_erlang "github.com/tree-sitter/tree-sitter-erlang/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_groovy "github.com/murtaza64/tree-sitter-groovy/bindings/go"
	tree_sitter_haskell "github.com/tree-sitter/tree-sitter-haskell/bindings/go"
	tree_sitter_hcl "github.com/tree-sitter-grammars/tree-sitter-hcl/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"
	tree_sitter_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"
	tree_sitter_objc "github.com/tree-sitter-grammars/tree-sitter-objc/bindings/go"
	tree_sitter_ocaml "github.com/tree-sitter/tree-sitter-ocaml/bindings/go"
	tree_sitter_perl "github.com/tree-sitter/tree-sitter-perl/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_r "github.com/r-lib/tree-sitter-r/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_scala "github.com/tree-sitter/tree-sitter-scala/bindings/go"
	tree_sitter_scss "github.com/tree-sitter-grammars/tree-sitter-scss/bindings/go"
	tree_sitter_sql "github.com/DerekStride/tree-sitter-sql/bindings/go"
	tree_sitter_swift "github.com/alex-pinkus/tree-sitter-swift/bindings/go"
	tree_sitter_toml "github.com/tree-sitter-grammars/tree-sitter-toml/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
	tree_sitter_yaml "github.com/tree-sitter-grammars/tree-sitter-yaml/bindings/go"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"

	"github.com/codegraph/codegraph/internal/lang"
)

// loader constructs the tree-sitter Language for one grammar. Grammars are
// wrapped individually so that one bad binding can't prevent every other
// language from loading.
type loader func() *tree_sitter.Language

var loaders = map[lang.Language]loader{
	lang.Python:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_python.Language()) },
	lang.JavaScript: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_javascript.Language()) },
	lang.TypeScript: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()) },
	lang.TSX:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()) },
	lang.Go:         func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_go.Language()) },
	lang.Rust:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_rust.Language()) },
	lang.Java:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_java.Language()) },
	lang.CPP:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_cpp.Language()) },
	lang.C:          func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_c.Language()) },
	lang.CSharp:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_c_sharp.Language()) },
	lang.PHP:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_php.LanguagePHPOnly()) },
	lang.Ruby:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_ruby.Language()) },
	lang.Lua:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_lua.Language()) },
	lang.Scala:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_scala.Language()) },
	lang.Kotlin:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_kotlin.Language()) },
	lang.Bash:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_bash.Language()) },
	lang.CSS:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_css.Language()) },
	lang.SCSS:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_scss.Language()) },
	lang.HTML:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_html.Language()) },
	lang.HCL:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_hcl.Language()) },
	lang.TOML:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_toml.Language()) },
	lang.YAML:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_yaml.Language()) },
	lang.Zig:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_zig.Language()) },
	lang.Haskell:    func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_haskell.Language()) },
	lang.OCaml:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_ocaml.LanguageOCaml()) },
	lang.Perl:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_perl.Language()) },
	lang.Dockerfile: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_dockerfile.Language()) },
	lang.Groovy:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_groovy.Language()) },
	lang.Erlang:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_erlang.Language()) },
	lang.Elixir:     func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_elixir.Language()) },
	lang.ObjectiveC: func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_objc.Language()) },
	lang.Swift:      func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_swift.Language()) },
	lang.Dart:       func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_dart.Language()) },
	lang.SQL:        func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_sql.Language()) },
	lang.R:          func() *tree_sitter.Language { return tree_sitter.NewLanguage(tree_sitter_r.Language()) },
}

var (
	mu          sync.Mutex
	languages   = map[lang.Language]*tree_sitter.Language{}
	parserPools = map[lang.Language]*sync.Pool{}
	unavailable = map[lang.Language]string{}
)

// resolve loads and caches the grammar for l on first use. It never panics:
// a grammar that fails to construct or to bind to a fresh parser is
// recorded in unavailable and every subsequent call returns the same error
// without retrying the load.
func resolve(l lang.Language) (*tree_sitter.Language, *sync.Pool, error) {
	mu.Lock()
	defer mu.Unlock()

	if reason, bad := unavailable[l]; bad {
		return nil, nil, fmt.Errorf("grammar for %s unavailable: %s", l, reason)
	}
	if tsLang, ok := languages[l]; ok {
		return tsLang, parserPools[l], nil
	}

	ld, ok := loaders[l]
	if !ok {
		unavailable[l] = "no grammar registered"
		return nil, nil, fmt.Errorf("grammar for %s unavailable: no grammar registered", l)
	}

	tsLang, err := loadSafely(ld)
	if err != nil {
		unavailable[l] = err.Error()
		return nil, nil, fmt.Errorf("grammar for %s unavailable: %w", l, err)
	}

	probe := tree_sitter.NewParser()
	if err := probe.SetLanguage(tsLang); err != nil {
		unavailable[l] = err.Error()
		return nil, nil, fmt.Errorf("grammar for %s unavailable: %w", l, err)
	}

	pool := &sync.Pool{
		New: func() any {
			p := tree_sitter.NewParser()
			if err := p.SetLanguage(tsLang); err != nil {
				return nil
			}
			return p
		},
	}
	pool.Put(probe)
	languages[l] = tsLang
	parserPools[l] = pool
	return tsLang, pool, nil
}

// loadSafely recovers from a panic inside a third-party grammar constructor
// so that one broken binding degrades that single language instead of the
// whole indexing run.
func loadSafely(ld loader) (tsLang *tree_sitter.Language, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic loading grammar: %v", r)
		}
	}()
	tsLang = ld()
	if tsLang == nil {
		err = fmt.Errorf("grammar constructor returned nil")
	}
	return
}

// IsSupported reports whether l has a tree-sitter grammar registered and
// loadable. For a registered language not probed before, this makes the
// one cached load attempt; unregistered languages are rejected without one.
func IsSupported(l lang.Language) bool {
	if _, ok := loaders[l]; !ok {
		return false
	}
	_, _, err := resolve(l)
	return err == nil
}

// GetLanguage returns the tree-sitter Language for l.
func GetLanguage(l lang.Language) (*tree_sitter.Language, error) {
	tsLang, _, err := resolve(l)
	return tsLang, err
}

// Parse parses source code into a tree-sitter AST Tree.
// The caller must call tree.Close() when done.
// Parsers are pooled per language via sync.Pool to avoid per-file allocation.
func Parse(l lang.Language, source []byte) (*tree_sitter.Tree, error) {
	_, pool, err := resolve(l)
	if err != nil {
		return nil, err
	}

	p, _ := pool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("failed to obtain parser for language %s", l)
	}
	defer pool.Put(p)

	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed for language %s", l)
	}
	return tree, nil
}

// WalkFunc is called for each node during AST traversal.
// Return false to skip children.
type WalkFunc func(node *tree_sitter.Node) bool

// Walk traverses the AST in depth-first order.
func Walk(node *tree_sitter.Node, fn WalkFunc) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil {
			Walk(child, fn)
		}
	}
}

// NodeText returns the text content of a node.
func NodeText(node *tree_sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
