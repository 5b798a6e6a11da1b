package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/config"
	"github.com/platinummonkey/protoweave/pkg/observability"
	"github.com/platinummonkey/protoweave/pkg/plugins"
	"github.com/platinummonkey/protoweave/pkg/plugins/annotation"
	"github.com/platinummonkey/protoweave/pkg/plugins/builtin"
	"github.com/platinummonkey/protoweave/pkg/plugins/uuid"
	"github.com/platinummonkey/protoweave/pkg/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const userProto = `syntax = "proto3";

package acme;

option java_package = "com.acme";
option java_multiple_files = true;

message User {
  string uuid = 1;

  // @protoweave:annotation:Deprecated
  string legacy_id = 2;
}
`

const userJava = `package com.acme;

public final class User extends
    com.google.protobuf.GeneratedMessageV3 {
  // @@protoc_insertion_point(class_scope:acme.User)
  public java.lang.String getUuid() {
    return uuid_;
  }
  public java.lang.String getLegacyId() {
    return legacyId_;
  }
}
`

var renderedUserJava = strings.Join([]string{
	"package com.acme;",
	"",
	"        @javax.annotation.Generated(",
	"            \"by protoweave\"",
	"        )",
	"public final class User extends",
	"    com.google.protobuf.GeneratedMessageV3 {",
	"  // @@protoc_insertion_point(class_scope:acme.User)",
	"    public static com.acme.User randomId() {",
	"        return newBuilder().setUuid(",
	"                java.util.UUID.randomUUID().toString()",
	"        ).build();",
	"    }",
	"  public java.lang.String getUuid() {",
	"    return uuid_;",
	"  }",
	"    @Deprecated",
	"  public java.lang.String getLegacyId() {",
	"    return legacyId_;",
	"  }",
	"}",
	"",
}, "\n")

var userSources = []ast.Source{{Path: "acme/user.proto", Content: userProto}}

func newPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	if cfg.Plugins == nil {
		cfg.Plugins = builtin.Builder(config.DefaultConfig(), nil)
	}
	p, err := New(cfg)
	require.NoError(t, err)
	return p
}

func javaSet(t *testing.T, files map[string]string) *render.SourceFileSet {
	t.Helper()
	set := render.NewSourceFileSet("java", nil)
	for path, code := range files {
		_, err := set.AddFile(path, code)
		require.NoError(t, err)
	}
	return set
}

func testManifest(id string) *plugins.Manifest {
	return &plugins.Manifest{
		ID:         id,
		Name:       id,
		Version:    "1.0.0",
		APIVersion: plugins.CurrentAPIVersion,
		Type:       plugins.PluginTypeRenderer,
		Language:   "java",
	}
}

func TestNew_RequiresPlugins(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoPlugins)
}

func TestPipeline_Run_EndToEnd(t *testing.T) {
	p := newPipeline(t, Config{})
	set := javaSet(t, map[string]string{"com/acme/User.java": userJava})

	report, err := p.Run(context.Background(), userSources, []*render.SourceFileSet{set})
	require.NoError(t, err)

	f, ok := set.File("com/acme/User.java")
	require.True(t, ok)
	if diff := cmp.Diff(renderedUserJava, f.Code()); diff != "" {
		t.Errorf("unexpected file contents (-want +got):\n%s", diff)
	}

	assert.NotEmpty(t, report.PassID)
	assert.Equal(t, 2, report.Routed)
	assert.Equal(t, map[string]int{uuid.ViewName: 1, annotation.ViewName: 1}, report.Records)
	assert.Equal(t, render.Stats{Applied: 3}, report.Totals)

	require.Len(t, report.Sets, 1)
	assert.Equal(t, "java", report.Sets[0].Language)
	assert.Equal(t, []RendererRun{
		{Name: uuid.RendererName, Stats: render.Stats{Applied: 1}},
		{Name: annotation.RendererName, Stats: render.Stats{Applied: 2}},
	}, report.Sets[0].Renderers)
}

func TestPipeline_Run_NonJavaSetUntouched(t *testing.T) {
	p := newPipeline(t, Config{})

	kotlin := render.NewSourceFileSet("kotlin", nil)
	_, err := kotlin.AddFile("com/acme/User.kt", "class User\n")
	require.NoError(t, err)

	report, err := p.Run(context.Background(), userSources, []*render.SourceFileSet{kotlin})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"com/acme/User.kt": "class User\n"}, kotlin.Snapshot())
	assert.Equal(t, render.Stats{}, report.Totals)
	for _, run := range report.Sets[0].Renderers {
		assert.True(t, run.Skipped, run.Name)
	}
}

func TestPipeline_Run_MissingFilesAreCounted(t *testing.T) {
	p := newPipeline(t, Config{})
	set := javaSet(t, map[string]string{"com/acme/Other.java": "package com.acme;\n"})

	report, err := p.Run(context.Background(), userSources, []*render.SourceFileSet{set})
	require.NoError(t, err)

	// uuid and the getter annotation target User.java, the class block finds no class
	assert.Equal(t, render.Stats{MissingFile: 2, NotFound: 1}, report.Totals)
	assert.Empty(t, set.Changed())
}

func TestPipeline_Run_CompileError(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	p := newPipeline(t, Config{Metrics: metrics})

	_, err := p.Run(context.Background(), []ast.Source{{Path: "bad.proto", Content: "message {"}}, nil)
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PassesTotal.WithLabelValues("error")))
}

func TestPipeline_Run_PluginBuilderError(t *testing.T) {
	boom := errors.New("boom")
	p := newPipeline(t, Config{Plugins: func() (*plugins.Registry, error) { return nil, boom }})

	_, err := p.Run(context.Background(), userSources, nil)
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_Run_NilFileSet(t *testing.T) {
	p := newPipeline(t, Config{})

	_, err := p.Run(context.Background(), userSources, []*render.SourceFileSet{nil})
	assert.ErrorIs(t, err, ErrNilFileSet)
}

func TestPipeline_RunEvents_RendererOrder(t *testing.T) {
	var calls []string
	recorder := func(name string) render.Renderer {
		return render.Func{ID: name, Lang: "java", Fn: func(context.Context, *render.SourceFileSet) error {
			calls = append(calls, name)
			return nil
		}}
	}

	p := newPipeline(t, Config{Plugins: func() (*plugins.Registry, error) {
		registry := plugins.NewRegistry(nil)
		err := registry.Register(plugins.NewBasic(testManifest("recorder"), nil,
			[]render.Renderer{recorder("first"), recorder("second"), recorder("third")}))
		return registry, err
	}})

	sets := []*render.SourceFileSet{javaSet(t, nil), javaSet(t, nil)}
	_, err := p.RunEvents(context.Background(), nil, sets)
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, calls)
}

func TestPipeline_RunEvents_RendererError(t *testing.T) {
	boom := errors.New("boom")
	p := newPipeline(t, Config{Plugins: func() (*plugins.Registry, error) {
		registry := plugins.NewRegistry(nil)
		err := registry.Register(plugins.NewBasic(testManifest("failing"), nil,
			[]render.Renderer{render.Func{ID: "failing", Lang: "java", Fn: func(context.Context, *render.SourceFileSet) error {
				return boom
			}}}))
		return registry, err
	}})

	_, err := p.RunEvents(context.Background(), nil, []*render.SourceFileSet{javaSet(t, nil)})
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_RunEvents_Cancelled(t *testing.T) {
	p := newPipeline(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.RunEvents(ctx, []ast.Event{ast.FileEntered{File: ast.File{Path: "a.proto"}}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_RunEvents_KeepsPassID(t *testing.T) {
	p := newPipeline(t, Config{})
	ctx := observability.WithPassID(context.Background(), "pass-1")

	report, err := p.RunEvents(ctx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "pass-1", report.PassID)
}

func TestPipeline_Run_Parallel(t *testing.T) {
	const n = 8

	var sources []ast.Source
	var sets []*render.SourceFileSet
	for i := 0; i < n; i++ {
		pkg := fmt.Sprintf("acme%d", i)
		proto := strings.ReplaceAll(userProto, "package acme;", "package "+pkg+";")
		proto = strings.ReplaceAll(proto, `"com.acme"`, `"com.`+pkg+`"`)
		sources = append(sources, ast.Source{Path: pkg + "/user.proto", Content: proto})

		java := strings.ReplaceAll(userJava, "com.acme", "com."+pkg)
		java = strings.ReplaceAll(java, "class_scope:acme.User", "class_scope:"+pkg+".User")
		sets = append(sets, javaSet(t, map[string]string{"com/" + pkg + "/User.java": java}))
	}

	p := newPipeline(t, Config{Parallel: true, MaxWorkers: 3})
	report, err := p.Run(context.Background(), sources, sets)
	require.NoError(t, err)

	// every set holds one of the n users, and every renderer runs over every set
	assert.Equal(t, render.Stats{Applied: 3 * n, MissingFile: 2 * n * (n - 1)}, report.Totals)
	for i, set := range sets {
		pkg := fmt.Sprintf("acme%d", i)
		f, ok := set.File("com/" + pkg + "/User.java")
		require.True(t, ok)
		assert.Contains(t, f.Code(), "public static com."+pkg+".User randomId() {")
		assert.Contains(t, f.Code(), "    @Deprecated\n  public java.lang.String getLegacyId()")
	}
}

func TestPipeline_Run_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	p := newPipeline(t, Config{Metrics: metrics})

	kotlin := render.NewSourceFileSet("kotlin", nil)
	set := javaSet(t, map[string]string{"com/acme/User.java": userJava})

	_, err := p.Run(context.Background(), userSources, []*render.SourceFileSet{set, kotlin})
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.PassesTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.RuleApplications))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ViewRecords.WithLabelValues(uuid.ViewName)))
	assert.Equal(t, float64(2), testutil.ToFloat64(
		metrics.InsertionsTotal.WithLabelValues(annotation.RendererName, observability.OutcomeApplied)))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metrics.RendererSkipsTotal.WithLabelValues(uuid.RendererName, SkipLanguageMismatch)))
}

func TestPipeline_Run_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	p := newPipeline(t, Config{})
	_, err := p.Run(context.Background(), userSources, []*render.SourceFileSet{javaSet(t, nil)})
	require.NoError(t, err)

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	assert.Equal(t, []string{"pipeline.compile", "pipeline.project", "pipeline.render"}, names)
}
