package lang

func init() {
	Register(&LanguageSpec{
		Language:       CSharp,
		FileExtensions: []string{".cs"},
		FunctionNodeTypes: []string{
			"local_function_statement",
			"constructor_declaration",
			"destructor_declaration",
			"anonymous_method_expression",
			"lambda_expression",
		},
		MethodNodeTypes: []string{"method_declaration"},
		ClassNodeTypes: []string{
			"class_declaration",
			"record_declaration",
		},
		StructNodeTypes:    []string{"struct_declaration"},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:       []string{"enum_declaration"},
		EnumMemberNodeTypes: []string{"enum_member_declaration"},
		ModuleNodeTypes:     []string{"compilation_unit", "namespace_declaration"},
		CallNodeTypes:       []string{"invocation_expression"},
		ImportNodeTypes:     []string{"using_directive"},
		ImportFromTypes:     []string{"using_directive"},

		ThrowNodeTypes:     []string{"throw_statement", "throw_expression"},
		DecoratorNodeTypes: []string{"attribute"},

		NameField:       "name",
		BodyField:       "body",
		ParametersField: "parameters",
		ReturnTypeField: "type",
		ExtendsField:    "bases",
		ImplementsField: "bases",
		ExportPredicate: "public-modifier",
		StaticKeyword:   "static",
		AsyncKeyword:    "async",
	})
}
