// Package render splices code fragments into generated source files at insertion points.
package render

import "context"

// Renderer modifies the files of a set, typically by querying sealed views and
// inserting code at the points they describe.
type Renderer interface {
	// Name is a stable identifier used in logs and metrics
	Name() string
	// Language is the root tag of the file sets the renderer applies to
	Language() string
	// Render mutates the set in place
	Render(ctx context.Context, set *SourceFileSet) error
}

// Applies reports whether the renderer targets the set's language.
// Renderers return early when it is false, leaving the set untouched.
func Applies(r Renderer, set *SourceFileSet) bool {
	return set.HasRoot(r.Language())
}

// Func adapts a function to the Renderer interface
type Func struct {
	ID   string
	Lang string
	Fn   func(ctx context.Context, set *SourceFileSet) error
}

// Name returns the renderer name
func (f Func) Name() string { return f.ID }

// Language returns the target language
func (f Func) Language() string { return f.Lang }

// Render calls Fn when the set has the renderer's language
func (f Func) Render(ctx context.Context, set *SourceFileSet) error {
	if !Applies(f, set) {
		return nil
	}
	return f.Fn(ctx, set)
}

var _ Renderer = Func{}
