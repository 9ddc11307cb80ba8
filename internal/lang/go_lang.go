package lang

func init() {
	Register(&LanguageSpec{
		Language:            Go,
		FileExtensions:      []string{".go"},
		FunctionNodeTypes:   []string{"function_declaration"},
		MethodNodeTypes:     []string{"method_declaration"},
		ClassNodeTypes:      []string{"type_spec", "type_alias"},
		StructNodeTypes:     []string{"struct_type"},
		InterfaceNodeTypes:  []string{"interface_type"},
		FieldNodeTypes:      []string{"field_declaration"},
		ModuleNodeTypes:     []string{"source_file"},
		CallNodeTypes:       []string{"call_expression"},
		ImportNodeTypes:     []string{"import_declaration"},
		ImportFromTypes:     []string{"import_declaration"},
		PackageIndicators:   []string{"go.mod"},

		BranchingNodeTypes: []string{"if_statement", "for_statement", "switch_statement", "type_switch_statement", "select_statement", "expression_case", "communication_case"},
		VariableNodeTypes:  []string{"var_declaration", "const_declaration", "short_var_declaration"},
		AssignmentNodeTypes: []string{"assignment_statement", "short_var_declaration"},

		NameField:       "name",
		BodyField:       "body",
		ParametersField: "parameters",
		ReturnTypeField: "result",
		ReceiverField:   "receiver",
		ExportPredicate: "uppercase",
		EnvAccessFunctions: []string{"os.Getenv", "os.LookupEnv"},
	})
}
