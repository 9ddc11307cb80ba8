package lang

func init() {
	Register(&LanguageSpec{
		Language:       PHP,
		FileExtensions: []string{".php"},
		FunctionNodeTypes: []string{
			"function_static_declaration",
			"anonymous_function",
			"function_definition",
			"arrow_function",
		},
		MethodNodeTypes: []string{"method_declaration"},
		ClassNodeTypes: []string{
			"class_declaration",
		},
		InterfaceNodeTypes: []string{"interface_declaration"},
		StructNodeTypes:    []string{"trait_declaration"},
		EnumNodeTypes:       []string{"enum_declaration"},
		EnumMemberNodeTypes: []string{"enum_case"},
		ModuleNodeTypes:     []string{"program"},
		CallNodeTypes: []string{
			"member_call_expression",
			"scoped_call_expression",
			"function_call_expression",
			"nullsafe_member_call_expression",
		},

		BranchingNodeTypes:  []string{"if_statement", "for_statement", "foreach_statement", "while_statement", "switch_statement", "case_statement", "try_statement", "catch_clause"},
		VariableNodeTypes:   []string{"expression_statement"},
		AssignmentNodeTypes: []string{"assignment_expression"},
		ThrowNodeTypes:      []string{"throw_expression"},
		DecoratorNodeTypes:  []string{"attribute_group"},
		EnvAccessFunctions:  []string{"getenv", "env"},

		NameField:       "name",
		BodyField:       "body",
		ParametersField: "parameters",
		ReturnTypeField: "return_type",
		ExtendsField:    "base_clause",
		ImplementsField: "class_interface_clause",
		ExportPredicate: "public-modifier",
		StaticKeyword:   "static",
	})
}
