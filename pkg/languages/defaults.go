package languages

// GetDefaultLanguages returns the default language configurations
func GetDefaultLanguages() []*LanguageSpec {
	return []*LanguageSpec{
		getJavaLanguageSpec(),
		getKotlinLanguageSpec(),
		getGoLanguageSpec(),
		getPythonLanguageSpec(),
	}
}

// NewDefaultRegistry returns a registry holding the default languages
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range GetDefaultLanguages() {
		// defaults are valid and unique
		_ = r.Register(spec)
	}
	return r
}

func getJavaLanguageSpec() *LanguageSpec {
	return &LanguageSpec{
		ID:             LanguageJava,
		Name:           "Java",
		DisplayName:    "Java (protoc --java_out)",
		FileExtensions: []string{".java"},
		Enabled:        true,
		Description:    "Java sources generated by protoc, with native insertion points",
	}
}

func getKotlinLanguageSpec() *LanguageSpec {
	return &LanguageSpec{
		ID:             LanguageKotlin,
		Name:           "Kotlin",
		DisplayName:    "Kotlin (protoc --kotlin_out)",
		FileExtensions: []string{".kt", ".kts"},
		Enabled:        true,
		Description:    "Kotlin DSL sources generated by protoc",
	}
}

func getGoLanguageSpec() *LanguageSpec {
	return &LanguageSpec{
		ID:             LanguageGo,
		Name:           "Go",
		DisplayName:    "Go (protoc-gen-go)",
		FileExtensions: []string{".pb.go"},
		Enabled:        false,
		Description:    "Go sources generated by protoc-gen-go",
	}
}

func getPythonLanguageSpec() *LanguageSpec {
	return &LanguageSpec{
		ID:             LanguagePython,
		Name:           "Python",
		DisplayName:    "Python (protoc --python_out)",
		FileExtensions: []string{"_pb2.py"},
		Enabled:        false,
		Description:    "Python sources generated by protoc",
	}
}
