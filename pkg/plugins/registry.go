package plugins

import (
	"fmt"
	"sync"

	"github.com/platinummonkey/protoweave/pkg/projection"
	"github.com/platinummonkey/protoweave/pkg/render"
	"github.com/sirupsen/logrus"
)

// Registry maps stable plugin IDs to constructed plugins, in registration order
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
	order   []string
	log     *logrus.Logger
}

// NewRegistry creates an empty plugin registry
func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
	}

	return &Registry{
		plugins: make(map[string]Plugin),
		log:     log,
	}
}

// Register adds a plugin to the registry
func (r *Registry) Register(plugin Plugin) error {
	if plugin == nil || plugin.Manifest() == nil {
		return ErrNilPlugin
	}

	manifest := plugin.Manifest()
	if err := validationErrors(manifest.ID, ValidateManifest(manifest)); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[manifest.ID]; exists {
		return fmt.Errorf("%w: %s", ErrPluginAlreadyRegistered, manifest.ID)
	}

	r.plugins[manifest.ID] = plugin
	r.order = append(r.order, manifest.ID)

	r.log.WithFields(logrus.Fields{
		"plugin":    manifest.ID,
		"version":   manifest.Version,
		"views":     len(plugin.Views()),
		"renderers": len(plugin.Renderers()),
	}).Debug("Registered plugin")

	return nil
}

// Get retrieves a plugin by ID
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugin, exists := r.plugins[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, id)
	}

	return plugin, nil
}

// List returns all registered plugins in registration order
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.plugins[id])
	}

	return result
}

// ListByType returns all plugins of a specific type
func (r *Registry) ListByType(t PluginType) []Plugin {
	var result []Plugin
	for _, plugin := range r.List() {
		if plugin.Manifest().Type == t {
			result = append(result, plugin)
		}
	}

	return result
}

// Manifests returns the manifests of all plugins in registration order
func (r *Registry) Manifests() []*Manifest {
	plugins := r.List()
	result := make([]*Manifest, 0, len(plugins))
	for _, plugin := range plugins {
		result = append(result, plugin.Manifest())
	}
	return result
}

// Count returns the number of registered plugins
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}

// Views returns the views of all plugins in registration order
func (r *Registry) Views() []projection.Subscriber {
	var views []projection.Subscriber
	for _, plugin := range r.List() {
		views = append(views, plugin.Views()...)
	}
	return views
}

// Renderers returns the renderers of all plugins in registration order
func (r *Registry) Renderers() []render.Renderer {
	var renderers []render.Renderer
	for _, plugin := range r.List() {
		renderers = append(renderers, plugin.Renderers()...)
	}
	return renderers
}

// Select returns a registry holding only the given plugins, in the given order
func (r *Registry) Select(ids []string) (*Registry, error) {
	selected := NewRegistry(r.log)
	for _, id := range ids {
		plugin, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		if err := selected.Register(plugin); err != nil {
			return nil, err
		}
	}
	return selected, nil
}
