package ast

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Source is a .proto file to compile
type Source struct {
	Path    string // import path, slash separated
	Content string
}

// Compiler compiles .proto sources with protocompile and turns the resulting
// descriptors into an ordered stream of AST events.
type Compiler struct {
	log *logrus.Logger
}

// NewCompiler creates a new compiler
func NewCompiler(log *logrus.Logger) *Compiler {
	if log == nil {
		log = logrus.New()
	}
	return &Compiler{log: log}
}

// Compile compiles the given sources and returns their events.
//
// Files are visited in path order. Within a file, messages are visited depth-first
// in declaration order: TypeEntered, then FieldEntered (followed by the field's
// FieldDirectiveFound events) for every field, then the nested types.
func (c *Compiler) Compile(ctx context.Context, sources []Source) ([]Event, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	contents := make(map[string]string, len(sources))
	paths := make([]string, 0, len(sources))
	for _, src := range sources {
		p := filepath.ToSlash(src.Path)
		if _, exists := contents[p]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, p)
		}
		contents[p] = src.Content
		paths = append(paths, p)
	}
	sort.Strings(paths)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(contents),
		}),
		SourceInfoMode: protocompile.SourceInfoStandard,
	}

	result, err := compiler.Compile(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("protocompile failed: %w", err)
	}

	var events []Event
	for _, fd := range result {
		fileEvents, err := c.walkFile(fd)
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", fd.Path(), err)
		}
		c.log.WithFields(logrus.Fields{
			"file":   fd.Path(),
			"events": len(fileEvents),
		}).Debug("Compiled proto file")
		events = append(events, fileEvents...)
	}

	return events, nil
}

func (c *Compiler) walkFile(fd protoreflect.FileDescriptor) ([]Event, error) {
	file := fileOf(fd)
	events := []Event{FileEntered{File: file}}

	msgs := fd.Messages()
	for i := 0; i < msgs.Len(); i++ {
		var err error
		events, err = c.walkMessage(events, file, msgs.Get(i), nil)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (c *Compiler) walkMessage(events []Event, file File, md protoreflect.MessageDescriptor, nesting []string) ([]Event, error) {
	if md.IsMapEntry() {
		return events, nil
	}

	name := NewTypeName(file.Package, nesting, string(md.Name()))
	events = append(events, TypeEntered{File: file, Type: name})

	locations := md.ParentFile().SourceLocations()
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		comments := locations.ByDescriptor(fd).LeadingComments

		field := Field{
			Name:     string(fd.Name()),
			Number:   int(fd.Number()),
			Type:     fieldType(fd),
			Repeated: fd.Cardinality() == protoreflect.Repeated,
			Comments: comments,
		}
		events = append(events, FieldEntered{File: file, Type: name, Field: field})

		directives, err := ParseDirectives(comments)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", name, field.Name, err)
		}
		for _, d := range directives {
			events = append(events, FieldDirectiveFound{
				File:   file,
				Type:   name,
				Field:  field.Name,
				Option: d.Option,
				Value:  d.Value,
			})
		}
	}

	inner := append(append([]string(nil), nesting...), string(md.Name()))
	nested := md.Messages()
	for i := 0; i < nested.Len(); i++ {
		var err error
		events, err = c.walkMessage(events, file, nested.Get(i), inner)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

func fileOf(fd protoreflect.FileDescriptor) File {
	file := File{
		Path:    fd.Path(),
		Package: string(fd.Package()),
	}
	if opts, ok := fd.Options().(*descriptorpb.FileOptions); ok && opts != nil {
		file.JavaPackage = opts.GetJavaPackage()
		file.JavaOuterClassName = opts.GetJavaOuterClassname()
		file.JavaMultipleFiles = opts.GetJavaMultipleFiles()
	}

	for i := 0; i < fd.Messages().Len(); i++ {
		file.TopLevelNames = append(file.TopLevelNames, string(fd.Messages().Get(i).Name()))
	}
	for i := 0; i < fd.Enums().Len(); i++ {
		file.TopLevelNames = append(file.TopLevelNames, string(fd.Enums().Get(i).Name()))
	}
	for i := 0; i < fd.Services().Len(); i++ {
		file.TopLevelNames = append(file.TopLevelNames, string(fd.Services().Get(i).Name()))
	}
	return file
}

func fieldType(fd protoreflect.FieldDescriptor) string {
	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return string(fd.Message().FullName())
	case protoreflect.EnumKind:
		return string(fd.Enum().FullName())
	default:
		return fd.Kind().String()
	}
}

// LoadSources reads every .proto file under root.
// Source paths are relative to root and slash separated.
func LoadSources(root string) ([]Source, error) {
	var sources []Source
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".proto") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{Path: filepath.ToSlash(rel), Content: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sources, nil
}
