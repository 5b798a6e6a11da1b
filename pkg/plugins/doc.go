// Package plugins groups projection views and renderers into named, versioned plugins.
//
// # Overview
//
// A Plugin contributes views, which fold AST events into fact records, and renderers,
// which read the sealed views and splice code into generated sources. Plugins are
// registered explicitly by stable ID; nothing is discovered at runtime.
//
// # Usage Example
//
//	registry := plugins.NewRegistry(log)
//	if err := registry.Register(uuid.New(uuid.Options{})); err != nil {
//		return err
//	}
//
//	for _, view := range registry.Views() {
//		store.Register(view)
//	}
//
// # Related Packages
//
//   - pkg/plugins/builtin: Registration of the bundled plugins
//   - pkg/pipeline: Runs registered plugins over a pass
package plugins
