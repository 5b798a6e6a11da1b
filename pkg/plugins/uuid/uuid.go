// Package uuid adds random ID factories to messages that carry a uuid field.
//
// A UUID type is a message with a field named "uuid". For each such message the
// renderer places a static randomId() method into the class scope of the message's
// Java class.
package uuid

import (
	"context"
	"fmt"

	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/insertion"
	"github.com/platinummonkey/protoweave/pkg/java"
	"github.com/platinummonkey/protoweave/pkg/languages"
	"github.com/platinummonkey/protoweave/pkg/plugins"
	"github.com/platinummonkey/protoweave/pkg/projection"
	"github.com/platinummonkey/protoweave/pkg/render"
	"github.com/sirupsen/logrus"
)

const (
	// PluginID is the registry key of the plugin
	PluginID = "uuid"
	// ViewName is the name of the UuidType view
	ViewName = "uuid.UuidType"
	// RendererName is the name of the random ID renderer
	RendererName = "uuid.random_id"

	// FieldName marks a message as a UUID type
	FieldName = "uuid"
	// DefaultLevel is the indentation level of the factory method inside the class
	DefaultLevel = 1
)

// UuidType is the fact record of a message with a uuid field
type UuidType struct {
	Name       ast.TypeName
	DeclaredIn ast.File
}

// View is the projection of UUID types keyed by type name
type View = projection.View[ast.TypeName, UuidType]

// NewView creates the UuidType view
func NewView(log *logrus.Logger) *View {
	return projection.NewView[ast.TypeName, UuidType](ViewName, log).
		MustAddRule(projection.Rule[ast.TypeName, UuidType]{
			Name:    "uuid-field",
			Matches: projection.FieldNamed(FieldName),
			Key: func(e ast.Event) ast.TypeName {
				return e.(ast.FieldEntered).Type
			},
			Apply: func(r UuidType, e ast.Event) UuidType {
				fe := e.(ast.FieldEntered)
				r.Name = fe.Type
				r.DeclaredIn = fe.File
				return r
			},
		})
}

// RandomIDMethod returns the lines of the factory method for the given Java class
func RandomIDMethod(className string) []string {
	return []string{
		fmt.Sprintf("public static %s randomId() {", className),
		"    return newBuilder().setUuid(",
		"            java.util.UUID.randomUUID().toString()",
		"    ).build();",
		"}",
	}
}

// Renderer inserts randomId() into the class scope of every UUID type
type Renderer struct {
	view  *View
	level int
	log   *logrus.Logger
}

// NewRenderer creates a renderer reading the given view
func NewRenderer(view *View, level int, log *logrus.Logger) *Renderer {
	if log == nil {
		log = logrus.New()
	}
	return &Renderer{view: view, level: level, log: log}
}

// Name returns the renderer name
func (r *Renderer) Name() string { return RendererName }

// Language returns the target language
func (r *Renderer) Language() string { return languages.LanguageJava }

// Render inserts the factory methods
func (r *Renderer) Render(ctx context.Context, set *render.SourceFileSet) error {
	if !render.Applies(r, set) {
		return nil
	}

	for _, t := range r.view.All() {
		if err := ctx.Err(); err != nil {
			return err
		}

		scope, err := insertion.NewClassScope(t.Name)
		if err != nil {
			return fmt.Errorf("uuid type %s: %w", t.Name, err)
		}

		path := java.FileOf(t.Name, t.DeclaredIn)
		lines := RandomIDMethod(java.ClassNameOf(t.Name, t.DeclaredIn))

		coord, err := set.At(path, scope).WithExtraIndentation(r.level).Add(lines...)
		if err != nil {
			return fmt.Errorf("uuid type %s: %w", t.Name, err)
		}
		if coord.Found() {
			r.log.WithFields(logrus.Fields{
				"renderer": RendererName,
				"type":     t.Name.String(),
				"path":     path,
			}).Debug("Added randomId()")
		}
	}

	return nil
}

// Options configures the plugin
type Options struct {
	Level int
	Log   *logrus.Logger
}

// New creates a fresh uuid plugin for one pass
func New(opts Options) *plugins.Basic {
	if opts.Level <= 0 {
		opts.Level = DefaultLevel
	}

	view := NewView(opts.Log)
	return plugins.NewBasic(&plugins.Manifest{
		ID:          PluginID,
		Name:        "UUID types",
		Version:     "1.0.0",
		APIVersion:  plugins.CurrentAPIVersion,
		Description: "Adds randomId() factories to messages with a uuid field",
		Type:        plugins.PluginTypeBundle,
		Language:    languages.LanguageJava,
	},
		[]projection.Subscriber{view},
		[]render.Renderer{NewRenderer(view, opts.Level, opts.Log)},
	)
}
