// Package pipeline runs one pass of the overlay: AST events are compiled from
// .proto sources, projected into the views of every enabled plugin, and the
// plugin renderers then splice code into the generated file sets.
//
// Event draining completes and every view is sealed before the first renderer
// runs. Within a file set renderers run sequentially in registration order;
// distinct file sets may be rendered concurrently.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/observability"
	"github.com/platinummonkey/protoweave/pkg/plugins"
	"github.com/platinummonkey/protoweave/pkg/projection"
	"github.com/platinummonkey/protoweave/pkg/render"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Phase names used for spans and duration metrics
const (
	PhaseCompile = "compile"
	PhaseProject = "project"
	PhaseRender  = "render"
)

// SkipLanguageMismatch is the skip reason of a renderer whose language differs from the set's
const SkipLanguageMismatch = "language_mismatch"

// Config configures a pipeline
type Config struct {
	// Plugins builds fresh plugin instances for every pass
	Plugins func() (*plugins.Registry, error)
	// Metrics is optional
	Metrics *observability.Metrics
	Log     *logrus.Logger
	// Parallel renders distinct file sets concurrently
	Parallel bool
	// MaxWorkers bounds concurrent file sets; zero means unbounded
	MaxWorkers int
}

// Pipeline runs passes
type Pipeline struct {
	cfg      Config
	compiler *ast.Compiler
	log      *logrus.Logger
}

// New creates a pipeline
func New(cfg Config) (*Pipeline, error) {
	if cfg.Plugins == nil {
		return nil, ErrNoPlugins
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}

	return &Pipeline{
		cfg:      cfg,
		compiler: ast.NewCompiler(cfg.Log),
		log:      cfg.Log,
	}, nil
}

// Run compiles the sources and renders the resulting facts into the file sets.
// The file sets are mutated in place.
func (p *Pipeline) Run(ctx context.Context, sources []ast.Source, sets []*render.SourceFileSet) (*Report, error) {
	ctx, passID := p.startPass(ctx)

	compileCtx, span := observability.StartSpan(ctx, "pipeline."+PhaseCompile,
		attribute.String("pass_id", passID),
		attribute.Int("sources", len(sources)),
	)
	start := time.Now()
	events, err := p.compiler.Compile(compileCtx, sources)
	p.cfg.Metrics.ObservePhase(PhaseCompile, time.Since(start).Seconds())
	observability.EndSpan(span, err)
	if err != nil {
		p.cfg.Metrics.ObservePass(err)
		return nil, fmt.Errorf("compile: %w", err)
	}

	return p.run(ctx, passID, events, sets)
}

// RunEvents renders already compiled events into the file sets
func (p *Pipeline) RunEvents(ctx context.Context, events []ast.Event, sets []*render.SourceFileSet) (*Report, error) {
	ctx, passID := p.startPass(ctx)
	return p.run(ctx, passID, events, sets)
}

func (p *Pipeline) startPass(ctx context.Context) (context.Context, string) {
	passID := observability.GetPassID(ctx)
	if passID == "" {
		passID = uuid.New().String()
		ctx = observability.WithPassID(ctx, passID)
	}
	return ctx, passID
}

func (p *Pipeline) run(ctx context.Context, passID string, events []ast.Event, sets []*render.SourceFileSet) (report *Report, err error) {
	defer func() { p.cfg.Metrics.ObservePass(err) }()

	for i, set := range sets {
		if set == nil {
			return nil, fmt.Errorf("%w: index %d", ErrNilFileSet, i)
		}
	}

	registry, err := p.cfg.Plugins()
	if err != nil {
		return nil, fmt.Errorf("failed to build plugins: %w", err)
	}

	report = &Report{
		PassID:  passID,
		Events:  len(events),
		Records: make(map[string]int),
	}

	routed, err := p.project(ctx, registry, events, report)
	if err != nil {
		return nil, err
	}
	report.Routed = routed

	if err := p.render(ctx, registry.Renderers(), sets, report); err != nil {
		return report, err
	}

	observability.FromContext(ctx, p.log).WithFields(logrus.Fields{
		"events":  report.Events,
		"routed":  report.Routed,
		"sets":    len(sets),
		"applied": report.Totals.Applied,
		"skipped": report.Totals.NotFound + report.Totals.MissingFile,
	}).Info("Pass completed")

	return report, nil
}

// project drains the events into the views of every plugin and seals them
func (p *Pipeline) project(ctx context.Context, registry *plugins.Registry, events []ast.Event, report *Report) (routed int, err error) {
	ctx, span := observability.StartSpan(ctx, "pipeline."+PhaseProject,
		attribute.Int("events", len(events)),
	)
	start := time.Now()
	defer func() {
		p.cfg.Metrics.ObservePhase(PhaseProject, time.Since(start).Seconds())
		observability.EndSpan(span, err)
	}()

	store := projection.NewStore(p.log)
	for _, view := range registry.Views() {
		if err := store.Register(view); err != nil {
			return 0, fmt.Errorf("project: %w", err)
		}
	}

	routed, err = store.Drain(ctx, events)
	if err != nil {
		return routed, fmt.Errorf("project: %w", err)
	}
	store.Seal()

	p.cfg.Metrics.ObserveEvents(events, routed)
	for _, view := range store.Views() {
		report.Records[view.Name()] = view.Len()
		p.cfg.Metrics.SetViewRecords(view.Name(), view.Len())
	}

	return routed, nil
}

// render runs every renderer over every set
func (p *Pipeline) render(ctx context.Context, renderers []render.Renderer, sets []*render.SourceFileSet, report *Report) (err error) {
	ctx, span := observability.StartSpan(ctx, "pipeline."+PhaseRender,
		attribute.Int("sets", len(sets)),
		attribute.Int("renderers", len(renderers)),
	)
	start := time.Now()
	defer func() {
		report.total()
		p.cfg.Metrics.ObservePhase(PhaseRender, time.Since(start).Seconds())
		observability.EndSpan(span, err)
	}()

	report.Sets = make([]SetReport, len(sets))

	if !p.cfg.Parallel || len(sets) < 2 {
		for i, set := range sets {
			if err := p.renderSet(ctx, renderers, set, &report.Sets[i]); err != nil {
				return err
			}
		}
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	if p.cfg.MaxWorkers > 0 {
		eg.SetLimit(p.cfg.MaxWorkers)
	}
	for i, set := range sets {
		eg.Go(func() error {
			return p.renderSet(ctx, renderers, set, &report.Sets[i])
		})
	}
	return eg.Wait()
}

func (p *Pipeline) renderSet(ctx context.Context, renderers []render.Renderer, set *render.SourceFileSet, out *SetReport) error {
	out.Language = set.Language()
	out.Root = set.Root()
	out.Files = set.Len()

	log := observability.FromContext(ctx, p.log).WithFields(logrus.Fields{
		"language": set.Language(),
		"root":     set.Root(),
	})

	for _, r := range renderers {
		if err := ctx.Err(); err != nil {
			return err
		}

		run := RendererRun{Name: r.Name()}
		if !render.Applies(r, set) {
			run.Skipped = true
			out.Renderers = append(out.Renderers, run)
			p.cfg.Metrics.ObserveSkip(r.Name(), SkipLanguageMismatch)
			log.WithField("renderer", r.Name()).Debug("Skipping renderer, language mismatch")
			continue
		}

		before := set.Stats()
		if err := r.Render(ctx, set); err != nil {
			return fmt.Errorf("renderer %s: %w", r.Name(), err)
		}
		run.Stats = set.Stats().Sub(before)
		out.Renderers = append(out.Renderers, run)

		p.cfg.Metrics.ObserveInsertions(r.Name(), run.Stats)
		log.WithFields(logrus.Fields{
			"renderer":     r.Name(),
			"applied":      run.Stats.Applied,
			"not_found":    run.Stats.NotFound,
			"missing_file": run.Stats.MissingFile,
		}).Debug("Renderer finished")
	}

	return nil
}
