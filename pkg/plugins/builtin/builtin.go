// Package builtin registers the plugins shipped with protoweave.
package builtin

import (
	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/plugins"
	"github.com/platinummonkey/protoweave/pkg/plugins/annotation"
	"github.com/platinummonkey/protoweave/pkg/plugins/uuid"
	"github.com/sirupsen/logrus"
)

// Indentation level keys read from the render configuration
const (
	LevelUUID             = "uuid.random_id"
	LevelAnnotationGetter = "annotation.getter"
	LevelAnnotationClass  = "annotation.class"
)

// Registry returns a registry holding fresh instances of every built-in plugin
func Registry(cfg config.RenderConfig, log *logrus.Logger) (*plugins.Registry, error) {
	registry := plugins.NewRegistry(log)

	all := []plugins.Plugin{
		uuid.New(uuid.Options{
			Level: cfg.Level(LevelUUID, uuid.DefaultLevel),
			Log:   log,
		}),
		annotation.New(annotation.Options{
			GetterLevel: cfg.Level(LevelAnnotationGetter, annotation.DefaultGetterLevel),
			ClassLevel:  cfg.Level(LevelAnnotationClass, annotation.DefaultClassLevel),
			Log:         log,
		}),
	}
	for _, plugin := range all {
		if err := registry.Register(plugin); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Builder returns a function building a registry of the enabled plugins, in the
// configured order, for each pass. An empty list enables every built-in plugin.
func Builder(cfg *config.Config, log *logrus.Logger) func() (*plugins.Registry, error) {
	return func() (*plugins.Registry, error) {
		registry, err := Registry(cfg.Render, log)
		if err != nil {
			return nil, err
		}
		if len(cfg.Plugins) == 0 {
			return registry, nil
		}
		return registry.Select(cfg.Plugins)
	}
}
