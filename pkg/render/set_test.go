package render

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/platinummonkey/protoweave/pkg/insertion"
	"github.com/platinummonkey/protoweave/pkg/languages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSourceFileSet_AddFile(t *testing.T) {
	set := NewSourceFileSet("java", nil)

	_, err := set.AddFile("com/acme/B.java", "class B {}")
	require.NoError(t, err)
	_, err = set.AddFile("com/acme/./A.java", "class A {}")
	require.NoError(t, err)

	assert.Equal(t, []string{"com/acme/B.java", "com/acme/A.java"}, set.Paths())
	assert.Equal(t, 2, set.Len())

	_, ok := set.File("com/acme/A.java")
	assert.True(t, ok)

	tests := []struct {
		name     string
		path     string
		expected error
	}{
		{"duplicate", "com/acme/B.java", ErrDuplicateFile},
		{"duplicate after cleaning", "com/acme/../acme/B.java", ErrDuplicateFile},
		{"empty", "", ErrInvalidPath},
		{"absolute", "/tmp/A.java", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := set.AddFile(tt.path, "")
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestSourceFileSet_HasRoot(t *testing.T) {
	set := NewSourceFileSet("kotlin", nil)
	assert.True(t, set.HasRoot("kotlin"))
	assert.False(t, set.HasRoot("java"))
	assert.Equal(t, "kotlin", set.Language())
}

func TestSourceFileSet_Subset(t *testing.T) {
	set := NewSourceFileSet("mixed", nil)
	for _, p := range []string{"a/Foo.java", "a/FooKt.kt", "a/Bar.java", "README.md"} {
		_, err := set.AddFile(p, "// @@protoc_insertion_point(outer_class_scope)")
		require.NoError(t, err)
	}

	java, err := languages.NewDefaultRegistry().Get(languages.LanguageJava)
	require.NoError(t, err)

	sub := set.Subset(java)
	assert.Equal(t, "java", sub.Language())
	assert.Equal(t, []string{"a/Foo.java", "a/Bar.java"}, sub.Paths())

	// files are shared with the parent set
	_, err = sub.At("a/Foo.java", nil).Add("x")
	require.NoError(t, err)
	_, err = sub.At("a/FooKt.kt", nil).Add("x")
	require.NoError(t, err)

	assert.Equal(t, Stats{NotFound: 1, MissingFile: 1}, sub.Stats())
	assert.Zero(t, set.Stats())
}

func TestSourceFileSet_SubsetStatsAreIndependent(t *testing.T) {
	set := NewSourceFileSet("mixed", nil)
	for _, p := range []string{"a/Foo.java", "a/FooKt.kt"} {
		_, err := set.AddFile(p, "// @@protoc_insertion_point(outer_class_scope)\n")
		require.NoError(t, err)
	}

	registry := languages.NewDefaultRegistry()
	java, err := registry.Get(languages.LanguageJava)
	require.NoError(t, err)
	kotlin, err := registry.Get(languages.LanguageKotlin)
	require.NoError(t, err)

	const inserts = 50
	subsets := map[string]*SourceFileSet{
		"a/Foo.java": set.Subset(java),
		"a/FooKt.kt": set.Subset(kotlin),
	}

	var g errgroup.Group
	for path, sub := range subsets {
		g.Go(func() error {
			before := sub.Stats()
			for i := 0; i < inserts; i++ {
				if _, err := sub.At(path, insertion.OuterClassScope()).Add("x"); err != nil {
					return err
				}
			}
			if delta := sub.Stats().Sub(before); delta != (Stats{Applied: inserts}) {
				return fmt.Errorf("%s: unexpected delta %+v", path, delta)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, sub := range subsets {
		assert.Equal(t, Stats{Applied: inserts}, sub.Stats())
	}
	assert.Zero(t, set.Stats())
}

func TestSourceFileSet_ForEach(t *testing.T) {
	set := NewSourceFileSet("java", nil)
	for _, p := range []string{"A.java", "B.java", "C.java"} {
		_, err := set.AddFile(p, "")
		require.NoError(t, err)
	}

	var visited []string
	stop := errors.New("stop")
	err := set.ForEach(func(f *SourceFile) error {
		visited = append(visited, f.Path())
		if f.Path() == "B.java" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Contains(t, err.Error(), "B.java")
	assert.Equal(t, []string{"A.java", "B.java"}, visited)
}

func TestSourceFileSet_ChangedAndSnapshot(t *testing.T) {
	set := newFooSet(t, "\n")
	_, err := set.AddFile("example/Other.java", "class Other {}")
	require.NoError(t, err)

	before := set.Snapshot()
	assert.Empty(t, set.Changed())

	_, err = set.At(fooPath, classScope(t)).Add("int x;")
	require.NoError(t, err)

	changed := set.Changed()
	require.Len(t, changed, 1)
	assert.Equal(t, fooPath, changed[0].Path())

	diff := cmp.Diff(before, set.Snapshot())
	assert.Contains(t, diff, "int x;")
	assert.NotContains(t, diff, "class Other")
}

func TestSourceFileSet_SetIndent(t *testing.T) {
	set := newFooSet(t, "\n")
	set.SetIndent(Indent{Size: 2})

	_, err := set.At(fooPath, classScope(t)).WithExtraIndentation(2).Add("int x;")
	require.NoError(t, err)

	f, _ := set.File(fooPath)
	assert.Contains(t, f.Code(), "\n    int x;\n")
}

func TestStats_Sub(t *testing.T) {
	after := Stats{Applied: 5, NotFound: 3, MissingFile: 1}
	before := Stats{Applied: 2, NotFound: 3}
	assert.Equal(t, Stats{Applied: 3, MissingFile: 1}, after.Sub(before))
}
