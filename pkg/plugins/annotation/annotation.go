// Package annotation places Java annotations declared in proto comments above field getters.
//
// A field comment directive such as
//
//	// @protoweave:annotation:Deprecated
//	string name = 1;
//
// puts @Deprecated above the getName() accessor. Every message class in a Java
// file set also gets a @javax.annotation.Generated marker.
package annotation

import (
	"context"
	"fmt"
	"strings"

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
	PluginID = "annotation"
	// ViewName is the name of the Annotated view
	ViewName = "annotation.Annotated"
	// RendererName is the name of the annotation renderer
	RendererName = "annotation.getter"

	// DirectiveOption is the directive option carrying the annotation
	DirectiveOption = "annotation"

	// DefaultGetterLevel is the indentation level of getter annotations
	DefaultGetterLevel = 1
	// DefaultClassLevel is the indentation level of the Generated block
	DefaultClassLevel = 2
)

// GeneratedBlock is placed above every message class
const GeneratedBlock = "@javax.annotation.Generated(\n    \"by protoweave\"\n)"

// Annotated is the fact record of a field with a Java annotation
type Annotated struct {
	ID             ast.FieldID
	DeclaredIn     ast.File
	JavaAnnotation string
}

// View is the projection of annotated fields keyed by field identity
type View = projection.View[ast.FieldID, Annotated]

// NewView creates the Annotated view
func NewView(log *logrus.Logger) *View {
	return projection.NewView[ast.FieldID, Annotated](ViewName, log).
		MustAddRule(projection.Rule[ast.FieldID, Annotated]{
			Name:    "annotation-directive",
			Matches: projection.DirectiveNamed(DirectiveOption),
			Key: func(e ast.Event) ast.FieldID {
				return e.(ast.FieldDirectiveFound).ID()
			},
			Apply: func(r Annotated, e ast.Event) Annotated {
				d := e.(ast.FieldDirectiveFound)
				r.ID = d.ID()
				r.DeclaredIn = d.File
				r.JavaAnnotation = strings.TrimPrefix(d.Value, "@")
				return r
			},
		})
}

// Renderer annotates getters and message classes of Java file sets
type Renderer struct {
	view        *View
	getterLevel int
	classLevel  int
	log         *logrus.Logger
}

// NewRenderer creates a renderer reading the given view
func NewRenderer(view *View, getterLevel, classLevel int, log *logrus.Logger) *Renderer {
	if log == nil {
		log = logrus.New()
	}
	return &Renderer{
		view:        view,
		getterLevel: getterLevel,
		classLevel:  classLevel,
		log:         log,
	}
}

// Name returns the renderer name
func (r *Renderer) Name() string { return RendererName }

// Language returns the target language
func (r *Renderer) Language() string { return languages.LanguageJava }

// Render places the annotations. Sets of other languages are left untouched.
func (r *Renderer) Render(ctx context.Context, set *render.SourceFileSet) error {
	if !render.Applies(r, set) {
		return nil
	}

	for _, field := range r.view.All() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.renderFor(field, set); err != nil {
			return err
		}
	}

	return set.ForEach(func(f *render.SourceFile) error {
		_, err := set.At(f.Path(), java.MessageClass{}).
			Before().
			WithExtraIndentation(r.classLevel).
			Add(GeneratedBlock)
		return err
	})
}

func (r *Renderer) renderFor(field Annotated, set *render.SourceFileSet) error {
	if strings.TrimSpace(field.JavaAnnotation) == "" {
		return fmt.Errorf("annotated field %s: %w", field.ID, ErrEmptyAnnotation)
	}

	getter, err := insertion.NewFieldGetter(field.ID)
	if err != nil {
		return fmt.Errorf("annotated field %s: %w", field.ID, err)
	}

	path := java.FileOf(field.ID.Type, field.DeclaredIn)
	coord, err := set.At(path, getter).
		Before().
		WithExtraIndentation(r.getterLevel).
		Add("@" + field.JavaAnnotation)
	if err != nil {
		return fmt.Errorf("annotated field %s: %w", field.ID, err)
	}

	if coord.Found() {
		r.log.WithFields(logrus.Fields{
			"renderer":   RendererName,
			"field":      field.ID.String(),
			"annotation": field.JavaAnnotation,
		}).Debug("Annotated getter")
	}
	return nil
}

// Options configures the plugin
type Options struct {
	GetterLevel int
	ClassLevel  int
	Log         *logrus.Logger
}

// New creates a fresh annotation plugin for one pass
func New(opts Options) *plugins.Basic {
	if opts.GetterLevel <= 0 {
		opts.GetterLevel = DefaultGetterLevel
	}
	if opts.ClassLevel <= 0 {
		opts.ClassLevel = DefaultClassLevel
	}

	view := NewView(opts.Log)
	return plugins.NewBasic(&plugins.Manifest{
		ID:          PluginID,
		Name:        "Field annotations",
		Version:     "1.0.0",
		APIVersion:  plugins.CurrentAPIVersion,
		Description: "Places annotations from @protoweave:annotation directives above getters",
		Type:        plugins.PluginTypeBundle,
		Language:    languages.LanguageJava,
	},
		[]projection.Subscriber{view},
		[]render.Renderer{NewRenderer(view, opts.GetterLevel, opts.ClassLevel, opts.Log)},
	)
}
