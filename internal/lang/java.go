package lang

func init() {
	Register(&LanguageSpec{
		Language:          Java,
		FileExtensions:    []string{".java"},
		FunctionNodeTypes: []string{"constructor_declaration"},
		MethodNodeTypes:   []string{"method_declaration"},
		ClassNodeTypes: []string{
			"class_declaration",
			"annotation_type_declaration",
			"record_declaration",
		},
		InterfaceNodeTypes: []string{"interface_declaration"},
		EnumNodeTypes:       []string{"enum_declaration"},
		EnumMemberNodeTypes: []string{"enum_constant"},
		FieldNodeTypes:      []string{"field_declaration"},
		ModuleNodeTypes:     []string{"program"},
		CallNodeTypes:       []string{"method_invocation"},
		ImportNodeTypes:     []string{"import_declaration"},
		ImportFromTypes:     []string{"import_declaration"},

		ThrowNodeTypes:     []string{"throw_statement"},
		ThrowsClauseField:  "throws",
		DecoratorNodeTypes: []string{"annotation", "marker_annotation"},

		NameField:       "name",
		BodyField:       "body",
		ParametersField: "parameters",
		ReturnTypeField: "type",
		ExtendsField:    "superclass",
		ImplementsField: "interfaces",
		ExportPredicate: "public-modifier",
		StaticKeyword:   "static",
	})
}
