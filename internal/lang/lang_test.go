package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".py", Python},
		{".go", Go},
		{".js", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".rs", Rust},
		{".java", Java},
		{".cpp", CPP},
		{".h", CPP},
		{".cs", CSharp},
		{".php", PHP},
		{".lua", Lua},
		{".scala", Scala},
		{".kt", Kotlin},
		{".kts", Kotlin},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, lang := range AllLanguages() {
		spec := ForLanguage(lang)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", lang)
		}
	}
}

func TestCoreLanguagesHaveSpecs(t *testing.T) {
	for _, l := range CoreLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("CoreLanguages: %s has no registered LanguageSpec", l)
			continue
		}
		if spec.NameField == "" {
			t.Errorf("CoreLanguages: %s LanguageSpec.NameField is empty", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
}

func TestGoSpec(t *testing.T) {
	spec := ForLanguage(Go)
	if spec == nil {
		t.Fatal("Go spec not registered")
	}
	if len(spec.FunctionNodeTypes) != 1 || spec.FunctionNodeTypes[0] != "function_declaration" {
		t.Errorf("Go FunctionNodeTypes: got %v, want [function_declaration]", spec.FunctionNodeTypes)
	}
	if len(spec.MethodNodeTypes) != 1 || spec.MethodNodeTypes[0] != "method_declaration" {
		t.Errorf("Go MethodNodeTypes: got %v, want [method_declaration]", spec.MethodNodeTypes)
	}
}

func TestPythonSpec(t *testing.T) {
	spec := ForLanguage(Python)
	if spec == nil {
		t.Fatal("Python spec not registered")
	}
	if spec.PackageIndicators[0] != "__init__.py" {
		t.Errorf("Python PackageIndicators: got %v, want [__init__.py]", spec.PackageIndicators)
	}
}