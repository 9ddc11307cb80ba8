package lang

func init() {
	Register(&LanguageSpec{
		Language:       Rust,
		FileExtensions: []string{".rs"},
		FunctionNodeTypes: []string{
			"function_item",
			"function_signature_item",
			"closure_expression",
		},
		StructNodeTypes:    []string{"struct_item", "union_item"},
		EnumNodeTypes:       []string{"enum_item"},
		EnumMemberNodeTypes: []string{"enum_variant"},
		InterfaceNodeTypes: []string{"trait_item"},
		ClassNodeTypes: []string{
			"impl_item",
			"type_item",
		},
		ModuleNodeTypes:   []string{"source_file", "mod_item"},
		CallNodeTypes:     []string{"call_expression", "macro_invocation"},
		ImportNodeTypes:   []string{"use_declaration", "extern_crate_declaration"},
		ImportFromTypes:   []string{"use_declaration"},
		PackageIndicators: []string{"Cargo.toml"},

		NameField:       "name",
		BodyField:       "body",
		ParametersField: "parameters",
		ReturnTypeField: "return_type",
		ImplementsField: "trait",
		ExportPredicate: "pub-keyword",
	})
}
