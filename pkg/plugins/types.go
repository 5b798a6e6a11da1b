package plugins

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/protoweave/pkg/projection"
	"github.com/platinummonkey/protoweave/pkg/render"
)

// Plugin is the interface all plugins implement.
// Views and renderers hold per-pass state, so a plugin instance serves a single pass.
type Plugin interface {
	Manifest() *Manifest
	Views() []projection.Subscriber
	Renderers() []render.Renderer
}

// Manifest describes plugin metadata
type Manifest struct {
	ID          string            `yaml:"id"`          // Unique ID (e.g., "uuid")
	Name        string            `yaml:"name"`        // Display name
	Version     string            `yaml:"version"`     // Semver
	APIVersion  string            `yaml:"api_version"` // Plugin API version
	Description string            `yaml:"description"` // Short description
	Author      string            `yaml:"author"`
	License     string            `yaml:"license"`
	Type        PluginType        `yaml:"type"`
	Language    string            `yaml:"language"`  // Root tag the renderers target
	Views       []string          `yaml:"views"`     // Names of contributed views
	Renderers   []string          `yaml:"renderers"` // Names of contributed renderers
	Metadata    map[string]string `yaml:"metadata,omitempty"`
}

// PluginType defines the category of plugin
type PluginType string

const (
	PluginTypeView     PluginType = "view"
	PluginTypeRenderer PluginType = "renderer"
	PluginTypeBundle   PluginType = "bundle"
)

// ParsePluginType converts a flag value into a plugin type
func ParsePluginType(s string) (PluginType, error) {
	switch t := PluginType(strings.ToLower(strings.TrimSpace(s))); t {
	case PluginTypeView, PluginTypeRenderer, PluginTypeBundle:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPluginType, s)
}

// ValidationError represents a manifest validation error
type ValidationError struct {
	Field   string `yaml:"field"`
	Message string `yaml:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// validationErrors joins validation errors into one error wrapping ErrInvalidManifest
func validationErrors(id string, errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("%w %q: %s", ErrInvalidManifest, id, strings.Join(msgs, "; "))
}

// Basic is a plugin assembled from a manifest and ready-made views and renderers
type Basic struct {
	manifest  *Manifest
	views     []projection.Subscriber
	renderers []render.Renderer
}

// NewBasic creates a plugin from its parts.
// The manifest's view and renderer names are filled in from the parts.
func NewBasic(manifest *Manifest, views []projection.Subscriber, renderers []render.Renderer) *Basic {
	manifest.Views = manifest.Views[:0]
	for _, v := range views {
		manifest.Views = append(manifest.Views, v.Name())
	}
	manifest.Renderers = manifest.Renderers[:0]
	for _, r := range renderers {
		manifest.Renderers = append(manifest.Renderers, r.Name())
	}

	return &Basic{
		manifest:  manifest,
		views:     views,
		renderers: renderers,
	}
}

// Manifest returns the plugin manifest
func (b *Basic) Manifest() *Manifest {
	return b.manifest
}

// Views returns the plugin views
func (b *Basic) Views() []projection.Subscriber {
	return b.views
}

// Renderers returns the plugin renderers in execution order
func (b *Basic) Renderers() []render.Renderer {
	return b.renderers
}

var _ Plugin = (*Basic)(nil)
