package ast

import "errors"

var (
	// ErrNoSources is returned when there is nothing to compile
	ErrNoSources = errors.New("no proto sources")

	// ErrDuplicateSource is returned when two sources share a path
	ErrDuplicateSource = errors.New("duplicate proto source")

	// ErrNotDirective is returned when a comment line is not a directive
	ErrNotDirective = errors.New("not a protoweave directive")

	// ErrInvalidDirective is returned for malformed directives
	ErrInvalidDirective = errors.New("invalid protoweave directive")
)
