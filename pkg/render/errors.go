package render

import "errors"

var (
	// ErrNegativeIndentation is returned when an insertion asks for a negative indentation level
	ErrNegativeIndentation = errors.New("indentation level must not be negative")

	// ErrDuplicateFile is returned when a path is added to a file set twice
	ErrDuplicateFile = errors.New("file already in set")

	// ErrInvalidPath is returned for empty or absolute file set paths
	ErrInvalidPath = errors.New("invalid file path")

	// ErrNoRoot is returned when writing a file set that was not loaded from a directory
	ErrNoRoot = errors.New("file set has no root directory")
)
