package ast

import (
	"strings"
)

// TypeURLPrefix is the prefix of Any type URLs for protobuf types
const TypeURLPrefix = "type.googleapis.com"

// File describes a compiled .proto file and the options that affect code layout
type File struct {
	Path               string `yaml:"path"`
	Package            string `yaml:"package"`
	JavaPackage        string `yaml:"java_package,omitempty"`
	JavaOuterClassName string `yaml:"java_outer_classname,omitempty"`
	JavaMultipleFiles  bool   `yaml:"java_multiple_files,omitempty"`

	// TopLevelNames holds the names of top-level messages, enums and services.
	// It is used to detect outer class name collisions.
	TopLevelNames []string `yaml:"top_level_names,omitempty"`
}

// IsZero reports whether the file has no identity
func (f File) IsZero() bool {
	return f.Path == ""
}

// TypeName identifies a message or enum type.
// Nesting holds the dot-separated names of enclosing messages, outermost first.
type TypeName struct {
	PackageName string
	Nesting     string
	SimpleName  string
}

// NewTypeName builds a type name from its parts
func NewTypeName(pkg string, nesting []string, simple string) TypeName {
	return TypeName{
		PackageName: pkg,
		Nesting:     strings.Join(nesting, "."),
		SimpleName:  simple,
	}
}

// IsZero reports whether the type name has no identity
func (n TypeName) IsZero() bool {
	return n.SimpleName == ""
}

// NestingTypeNames returns the enclosing message names, outermost first
func (n TypeName) NestingTypeNames() []string {
	if n.Nesting == "" {
		return nil
	}
	return strings.Split(n.Nesting, ".")
}

// QualifiedName returns the fully qualified protobuf name, e.g. "example.Outer.Inner"
func (n TypeName) QualifiedName() string {
	parts := make([]string, 0, 3)
	if n.PackageName != "" {
		parts = append(parts, n.PackageName)
	}
	if n.Nesting != "" {
		parts = append(parts, n.Nesting)
	}
	parts = append(parts, n.SimpleName)
	return strings.Join(parts, ".")
}

// TypeURL returns the Any type URL of the type
func (n TypeName) TypeURL() string {
	return TypeURLPrefix + "/" + n.QualifiedName()
}

// String returns the qualified name
func (n TypeName) String() string {
	return n.QualifiedName()
}

// Field describes a message field
type Field struct {
	Name     string
	Number   int
	Type     string // scalar kind or fully qualified message/enum name
	Repeated bool
	Comments string
}

// FieldID identifies a field within a type declared in a file
type FieldID struct {
	Type  TypeName
	File  string
	Field string
}

// IsZero reports whether the field identity is incomplete
func (id FieldID) IsZero() bool {
	return id.Type.IsZero() || id.File == "" || id.Field == ""
}

// String returns a readable representation of the field identity
func (id FieldID) String() string {
	return id.Type.QualifiedName() + "." + id.Field
}
