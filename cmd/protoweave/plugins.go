package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/plugins"
	"github.com/platinummonkey/protoweave/pkg/plugins/builtin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagPluginType string
	flagPluginsOut string
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List built-in plugins and their manifests",
	Long:  "Prints the built-in plugin manifests as a YAML stream. With --out every manifest is written to DIR/<id>/plugin.yaml instead.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}
		log := newLogger(cfg)

		registry, err := builtin.Registry(cfg.Render, log)
		if err != nil {
			return err
		}

		manifests, err := selectManifests(registry, flagPluginType)
		if err != nil {
			return err
		}

		if flagPluginsOut != "" {
			written, err := exportManifests(manifests, flagPluginsOut, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Wrote %d of %d manifests to %s\n", written, len(manifests), flagPluginsOut)
			return nil
		}

		out, err := plugins.MarshalManifests(manifests...)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, string(out))
		return nil
	},
}

func init() {
	pluginsCmd.Flags().StringVar(&flagPluginType, "type", "", "only plugins of this type: view|renderer|bundle")
	pluginsCmd.Flags().StringVar(&flagPluginsOut, "out", "", "write manifests below this directory")
}

// selectManifests returns the manifests of the registry, filtered by type when one is given
func selectManifests(registry *plugins.Registry, pluginType string) ([]*plugins.Manifest, error) {
	if pluginType == "" {
		return registry.Manifests(), nil
	}

	t, err := plugins.ParsePluginType(pluginType)
	if err != nil {
		return nil, err
	}

	var manifests []*plugins.Manifest
	for _, plugin := range registry.ListByType(t) {
		manifests = append(manifests, plugin.Manifest())
	}
	return manifests, nil
}

// exportManifests writes each manifest to dir/<id>/plugin.yaml.
// Manifests already on disk with the same content are left alone.
func exportManifests(manifests []*plugins.Manifest, dir string, log *logrus.Logger) (int, error) {
	written := 0
	for _, m := range manifests {
		pluginDir := filepath.Join(dir, m.ID)

		existing, err := plugins.LoadManifestFromDir(pluginDir)
		switch {
		case err == nil && cmp.Equal(existing, m, cmpopts.EquateEmpty()):
			log.WithField("plugin", m.ID).Debug("Manifest unchanged")
			continue
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			log.WithError(err).WithField("plugin", m.ID).Warn("Replacing unreadable manifest")
		}

		if err := plugins.SaveManifest(m, filepath.Join(pluginDir, "plugin.yaml")); err != nil {
			return written, fmt.Errorf("plugin %s: %w", m.ID, err)
		}
		written++
	}
	return written, nil
}
