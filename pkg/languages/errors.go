package languages

import "errors"

var (
	// ErrLanguageNotFound is returned when a language is not found in the registry
	ErrLanguageNotFound = errors.New("language not found")

	// ErrLanguageAlreadyExists is returned when trying to register a duplicate language
	ErrLanguageAlreadyExists = errors.New("language already exists")

	// ErrInvalidLanguageID is returned when a language ID is invalid
	ErrInvalidLanguageID = errors.New("invalid language ID")

	// ErrInvalidLanguageName is returned when a language name is invalid
	ErrInvalidLanguageName = errors.New("invalid language name")

	// ErrNoFileExtensions is returned when a language declares no source file extensions
	ErrNoFileExtensions = errors.New("language has no file extensions")
)
