package main

import (
	"context"
	"fmt"
	"os"

	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/languages"
	"github.com/platinummonkey/protoweave/pkg/observability"
	"github.com/platinummonkey/protoweave/pkg/pipeline"
	"github.com/platinummonkey/protoweave/pkg/plugins/builtin"
	"github.com/platinummonkey/protoweave/pkg/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	flagDryRun bool
	flagReport bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Run one pass over the configured source roots",
	Long:  "Compiles the proto roots, runs every enabled plugin over the generated source roots and writes the changed files back.",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "render without writing files")
	renderCmd.Flags().BoolVar(&flagReport, "report", false, "print the pass report as YAML")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(cfg)
	shutdown, err := initTracing(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer flushTracing(shutdown, log)

	report, _, err := renderOnce(cmd.Context(), cfg, log, nil, !flagDryRun)
	if err != nil {
		return err
	}

	if flagReport {
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprint(os.Stdout, string(out))
	}
	return nil
}

// renderOnce runs a single pass and, when write is set, writes the rendered files to
// each root's target, or back into the root when it has none.
// It returns the pass report and the number of files written.
func renderOnce(ctx context.Context, cfg *config.Config, log *logrus.Logger, metrics *observability.Metrics, write bool) (*pipeline.Report, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var sources []ast.Source
	for _, root := range cfg.Proto.Roots {
		found, err := ast.LoadSources(root)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load proto root %s: %w", root, err)
		}
		sources = append(sources, found...)
	}

	roots, err := loadSourceRoots(cfg, log)
	if err != nil {
		return nil, 0, err
	}
	sets := make([]*render.SourceFileSet, len(roots))
	for i, root := range roots {
		sets[i] = root.set
	}

	p, err := pipeline.New(pipeline.Config{
		Plugins:  builtin.Builder(cfg, log),
		Metrics:  metrics,
		Log:      log,
		Parallel: cfg.Render.Parallel,
	})
	if err != nil {
		return nil, 0, err
	}

	report, err := p.Run(ctx, sources, sets)
	if err != nil {
		return nil, 0, err
	}

	if !write {
		return report, 0, nil
	}

	written := 0
	for _, root := range roots {
		n, err := root.write()
		written += n
		if err != nil {
			return report, written, err
		}
	}
	metrics.ObserveWritten(written)

	return report, written, nil
}

// loadedRoot is a loaded source root and where its rendered files go
type loadedRoot struct {
	set    *render.SourceFileSet
	source config.SourceRoot
}

func (r loadedRoot) write() (int, error) {
	if r.source.InPlace() {
		return r.set.WriteDir()
	}
	return r.set.WriteTo(r.source.Target)
}

// loadSourceRoots loads every configured source root whose language is enabled
func loadSourceRoots(cfg *config.Config, log *logrus.Logger) ([]loadedRoot, error) {
	registry := languages.NewDefaultRegistry()
	indent := render.Indent{Size: cfg.Render.IndentSize}

	var roots []loadedRoot
	for _, src := range cfg.Sources {
		spec, err := registry.Get(src.Language)
		if err != nil {
			return nil, err
		}
		if !spec.Enabled {
			log.WithFields(logrus.Fields{
				"root":     src.Path,
				"language": src.Language,
			}).Warn("Skipping source root, language is disabled")
			continue
		}
		if src.InPlace() {
			log.WithField("root", src.Path).Warn("Rendering in place, passes are not idempotent")
		}

		set, err := render.LoadDir(src.Path, spec, log)
		if err != nil {
			return nil, err
		}
		set.SetIndent(indent)
		roots = append(roots, loadedRoot{set: set, source: src})
	}
	return roots, nil
}
