package lang

func init() {
	Register(&LanguageSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts"},
		FunctionNodeTypes: []string{
			"function_declaration",
			"generator_function_declaration",
			"function_expression",
			"arrow_function",
			"function_signature",
		},
		MethodNodeTypes: []string{"method_definition", "method_signature"},
		ClassNodeTypes: []string{
			"class_declaration",
			"class",
			"abstract_class_declaration",
		},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:      []string{"enum_declaration"},
		EnumMemberNodeTypes: []string{"enum_assignment", "property_identifier"},
		ModuleNodeTypes:    []string{"program"},
		CallNodeTypes:      []string{"call_expression"},
		ImportNodeTypes:    []string{"import_statement", "lexical_declaration", "export_statement"},
		ImportFromTypes:    []string{"import_statement", "lexical_declaration", "export_statement"},

		BranchingNodeTypes:  []string{"if_statement", "for_statement", "for_in_statement", "while_statement", "switch_statement", "case_clause", "try_statement", "catch_clause"},
		VariableNodeTypes:   []string{"lexical_declaration", "variable_declaration"},
		AssignmentNodeTypes: []string{"assignment_expression", "augmented_assignment_expression"},
		ThrowNodeTypes:      []string{"throw_statement"},
		DecoratorNodeTypes:  []string{"decorator"},

		NameField:             "name",
		BodyField:             "body",
		ParametersField:       "parameters",
		ReturnTypeField:       "return_type",
		ExtendsField:          "heritage",
		ImplementsField:       "heritage",
		ExportPredicate:       "explicit-keyword",
		AsyncKeyword:          "async",
		StaticKeyword:         "static",
		AnonymousNameSentinel: "<anonymous>",
	})
}
