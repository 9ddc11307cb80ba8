package lang

// Language represents a supported programming language.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	CPP        Language = "cpp"
	TSX        Language = "tsx"
	CSharp     Language = "c-sharp"
	PHP        Language = "php"
	Lua        Language = "lua"
	Scala      Language = "scala"
	Kotlin     Language = "kotlin"
	JSON       Language = "json" // no LanguageSpec or tree-sitter grammar; no file extension maps to it

	Bash       Language = "bash"
	C          Language = "c"
	CSS        Language = "css"
	Dart       Language = "dart"
	Dockerfile Language = "dockerfile"
	Elixir     Language = "elixir"
	Erlang     Language = "erlang"
	Groovy     Language = "groovy"
	Haskell    Language = "haskell"
	HCL        Language = "hcl"
	HTML       Language = "html"
	ObjectiveC Language = "objective-c"
	OCaml      Language = "ocaml"
	Perl       Language = "perl"
	R          Language = "r"
	Ruby       Language = "ruby"
	SCSS       Language = "scss"
	SQL        Language = "sql"
	Swift      Language = "swift"
	TOML       Language = "toml"
	YAML       Language = "yaml"
	Zig        Language = "zig"
)

// coreLanguages lists the languages with a full extraction-oriented
// LanguageSpec (method/visibility/signature fields populated); these are
// the languages the Grammar Registry guarantees a tree-sitter parser for.
var coreLanguages = []Language{
	Go, Python, TypeScript, JavaScript, Java, Rust, CSharp, Ruby, PHP,
}

// AllLanguages returns every language with a registered LanguageSpec,
// each once. The order is not defined: it follows iteration over the
// extension-keyed registry map and can differ between calls.
func AllLanguages() []Language {
	seen := make(map[Language]bool)
	var out []Language
	for _, spec := range registry {
		if !seen[spec.Language] {
			seen[spec.Language] = true
			out = append(out, spec.Language)
		}
	}
	return out
}

// CoreLanguages returns the languages with a fully populated LanguageSpec.
func CoreLanguages() []Language {
	return append([]Language(nil), coreLanguages...)
}

// LanguageSpec defines the tree-sitter node types for a language.
type LanguageSpec struct {
	Language          Language
	FileExtensions    []string
	FunctionNodeTypes []string
	ClassNodeTypes    []string
	FieldNodeTypes    []string // tree-sitter node kinds for struct/class fields
	ModuleNodeTypes   []string
	CallNodeTypes     []string
	ImportNodeTypes   []string
	ImportFromTypes   []string
	PackageIndicators []string

	// BranchingNodeTypes lists AST node kinds counted for complexity metric.
	BranchingNodeTypes []string
	// VariableNodeTypes lists module-level variable declaration node kinds.
	VariableNodeTypes []string
	// AssignmentNodeTypes lists assignment expression/statement node kinds.
	AssignmentNodeTypes []string
	// ThrowNodeTypes lists throw/raise statement node kinds.
	ThrowNodeTypes []string
	// ThrowsClauseField is the field name for declared throws (e.g. Java "throws").
	ThrowsClauseField string
	// DecoratorNodeTypes lists decorator/annotation node kinds.
	DecoratorNodeTypes []string
	// EnvAccessFunctions lists function names used to read env vars (e.g. "os.Getenv").
	EnvAccessFunctions []string
	// EnvAccessMemberPatterns lists member access patterns for env vars (e.g. "process.env").
	EnvAccessMemberPatterns []string

	// InterfaceNodeTypes lists interface/protocol/trait declaration node kinds.
	InterfaceNodeTypes []string
	// StructNodeTypes lists struct declaration node kinds, distinct from ClassNodeTypes.
	StructNodeTypes []string
	// EnumNodeTypes lists enum declaration node kinds.
	EnumNodeTypes []string
	// MethodNodeTypes lists method node kinds, where a language's grammar
	// distinguishes methods from free functions at the node-type level
	// rather than by containment.
	MethodNodeTypes []string
	// EnumMemberNodeTypes lists enum member/variant node kinds.
	EnumMemberNodeTypes []string

	// ExtendsField is the field name on a class/interface node holding its
	// superclass/superinterface clause.
	ExtendsField string
	// ImplementsField is the field name on a class node holding its
	// implemented-interfaces clause.
	ImplementsField string
	// NameField is the field name holding a declaration's identifier.
	NameField string
	// BodyField is the field name holding a declaration's body block.
	BodyField string
	// ParametersField is the field name holding a function/method's parameter list.
	ParametersField string
	// ReturnTypeField is the field name holding a function/method's declared return type.
	ReturnTypeField string
	// ReceiverField is the field name holding a method's receiver (e.g. Go methods).
	ReceiverField string

	// VisibilityPrefixes maps identifier prefixes/cases to a visibility,
	// e.g. Go's uppercase-exported convention has no prefix; Python's
	// leading-underscore convention is encoded by the extractor directly.
	VisibilityPrefixes map[string]string
	// ExportPredicate names the heuristic the extractor uses to decide
	// whether a top-level declaration is exported for this language
	// ("uppercase", "no-leading-underscore", "explicit-keyword",
	// "public-modifier", "pub-keyword", "default-exported").
	ExportPredicate string
	// AsyncKeyword is the keyword/modifier marking an async function, if any.
	AsyncKeyword string
	// StaticKeyword is the keyword/modifier marking a static member, if any.
	StaticKeyword string
	// AnonymousNameSentinel is the synthetic name used for anonymous
	// functions/closures when no identifier is present.
	AnonymousNameSentinel string
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go").
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a language.
func ForLanguage(lang Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == lang {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}
