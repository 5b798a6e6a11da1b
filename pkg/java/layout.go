// Package java maps protobuf declarations onto the layout of protoc's Java output.
package java

import (
	"path"
	"strings"

	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/text"
)

const (
	// Extension of Java source files
	Extension = ".java"

	outerClassSuffix = "OuterClass"
)

// Package returns the Java package of a file: java_package if set, else the proto package
func Package(f ast.File) string {
	if f.JavaPackage != "" {
		return f.JavaPackage
	}
	return f.Package
}

// OuterClassName returns the name of the outer class protoc generates for a file.
// Without java_outer_classname it is the CamelCase file base name, suffixed with
// "OuterClass" when that collides with a top-level declaration.
func OuterClassName(f ast.File) string {
	if f.JavaOuterClassName != "" {
		return f.JavaOuterClassName
	}

	base := strings.TrimSuffix(path.Base(f.Path), path.Ext(f.Path))
	name := text.CamelCase(base)
	for _, declared := range f.TopLevelNames {
		if declared == name {
			return name + outerClassSuffix
		}
	}
	return name
}

// TopLevelClassName returns the name of the class that owns the source file of a type
func TopLevelClassName(t ast.TypeName, f ast.File) string {
	switch {
	case !f.JavaMultipleFiles:
		return OuterClassName(f)
	case t.Nesting != "":
		return t.NestingTypeNames()[0]
	default:
		return t.SimpleName
	}
}

// FileOf returns the slash-separated path of the Java file declaring a type,
// relative to the Java source root.
func FileOf(t ast.TypeName, f ast.File) string {
	dir := strings.ReplaceAll(Package(f), ".", "/")
	return path.Join(dir, TopLevelClassName(t, f)+Extension)
}

// ClassNameOf returns the canonical Java class name of a type, e.g. "com.acme.Outer.Inner"
func ClassNameOf(t ast.TypeName, f ast.File) string {
	var parts []string
	if pkg := Package(f); pkg != "" {
		parts = append(parts, pkg)
	}
	if !f.JavaMultipleFiles {
		parts = append(parts, OuterClassName(f))
	}
	parts = append(parts, t.NestingTypeNames()...)
	parts = append(parts, t.SimpleName)
	return strings.Join(parts, ".")
}
