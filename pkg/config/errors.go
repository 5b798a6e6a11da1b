package config

import "errors"

var (
	// ErrNoProtoRoots is returned when no proto root is configured
	ErrNoProtoRoots = errors.New("at least one proto root is required")

	// ErrNoSourceRoots is returned when no generated source root is configured
	ErrNoSourceRoots = errors.New("at least one source root is required")

	// ErrInvalidSourceRoot is returned for a source root without a path or with an unknown language
	ErrInvalidSourceRoot = errors.New("invalid source root")

	// ErrInvalidIndent is returned for a non-positive indent size or a negative level
	ErrInvalidIndent = errors.New("invalid indentation")

	// ErrInvalidDebounce is returned for a non-positive watch debounce
	ErrInvalidDebounce = errors.New("watch debounce must be positive")
)
