// Package languages describes the target languages a source root can be tagged with.
package languages

import (
	"strings"
)

// LanguageSpec describes a target language of generated sources
type LanguageSpec struct {
	ID          string `yaml:"id"`           // "java", "kotlin"
	Name        string `yaml:"name"`         // "Java", "Kotlin"
	DisplayName string `yaml:"display_name"` // "Java (protoc --java_out)"

	// FileExtensions selects the files of a source root that belong to the language
	FileExtensions []string `yaml:"file_extensions"` // [".java"]

	Enabled     bool   `yaml:"enabled"`
	Description string `yaml:"description"`
}

// Validate checks if the language spec is valid
func (ls *LanguageSpec) Validate() error {
	if ls.ID == "" {
		return ErrInvalidLanguageID
	}
	if ls.Name == "" {
		return ErrInvalidLanguageName
	}
	if len(ls.FileExtensions) == 0 {
		return ErrNoFileExtensions
	}
	return nil
}

// Matches reports whether the path has one of the language's file extensions
func (ls *LanguageSpec) Matches(path string) bool {
	for _, ext := range ls.FileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// Common language IDs
const (
	LanguageJava   = "java"
	LanguageKotlin = "kotlin"
	LanguageGo     = "go"
	LanguagePython = "python"
)
