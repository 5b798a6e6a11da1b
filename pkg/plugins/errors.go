package plugins

import "errors"

var (
	// ErrNilPlugin is returned when registering a nil plugin or a plugin without a manifest
	ErrNilPlugin = errors.New("plugin or manifest is nil")

	// ErrPluginAlreadyRegistered is returned when a plugin ID is registered twice
	ErrPluginAlreadyRegistered = errors.New("plugin already registered")

	// ErrPluginNotFound is returned when no plugin has the requested ID
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrInvalidManifest is returned when a manifest fails validation
	ErrInvalidManifest = errors.New("invalid plugin manifest")

	// ErrInvalidPluginType is returned for unknown plugin types
	ErrInvalidPluginType = errors.New("invalid plugin type")
)
