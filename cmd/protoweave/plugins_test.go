package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/plugins"
	"github.com/platinummonkey/protoweave/pkg/plugins/annotation"
	"github.com/platinummonkey/protoweave/pkg/plugins/builtin"
	"github.com/platinummonkey/protoweave/pkg/plugins/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtinRegistry(t *testing.T) *plugins.Registry {
	t.Helper()
	registry, err := builtin.Registry(config.DefaultConfig().Render, logrus.New())
	require.NoError(t, err)
	return registry
}

func manifestIDs(manifests []*plugins.Manifest) []string {
	var ids []string
	for _, m := range manifests {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestSelectManifests(t *testing.T) {
	tests := []struct {
		name       string
		pluginType string
		expected   []string
		wantErr    error
	}{
		{"no filter", "", []string{uuid.PluginID, annotation.PluginID}, nil},
		{"bundles", "bundle", []string{uuid.PluginID, annotation.PluginID}, nil},
		{"no view plugins", "view", nil, nil},
		{"unknown type", "transformer", nil, plugins.ErrInvalidPluginType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manifests, err := selectManifests(builtinRegistry(t), tt.pluginType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, manifestIDs(manifests))
		})
	}
}

func TestExportManifests(t *testing.T) {
	dir := t.TempDir()
	manifests := builtinRegistry(t).Manifests()
	log := logrus.New()

	written, err := exportManifests(manifests, dir, log)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	for _, m := range manifests {
		loaded, err := plugins.LoadManifestFromDir(filepath.Join(dir, m.ID))
		require.NoError(t, err)
		assert.Equal(t, m.ID, loaded.ID)
		assert.Equal(t, m.Renderers, loaded.Renderers)
	}

	// unchanged manifests are not rewritten
	written, err = exportManifests(manifests, dir, log)
	require.NoError(t, err)
	assert.Zero(t, written)

	stale := filepath.Join(dir, uuid.PluginID, "plugin.yaml")
	require.NoError(t, os.WriteFile(stale, []byte("id: uuid\nversion: 0.0.1\n"), 0644))

	written, err = exportManifests(manifests, dir, log)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	loaded, err := plugins.LoadManifestFromDir(filepath.Join(dir, uuid.PluginID))
	require.NoError(t, err)
	assert.Equal(t, manifests[0].Version, loaded.Version)
}
