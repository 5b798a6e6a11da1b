package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classScopeRenderer(t *testing.T) Func {
	point := classScope(t)
	return Func{
		ID:   "class-scope",
		Lang: "java",
		Fn: func(_ context.Context, set *SourceFileSet) error {
			_, err := set.At(fooPath, point).WithExtraIndentation(1).Add("int x;")
			return err
		},
	}
}

func TestFunc_Render(t *testing.T) {
	set := newFooSet(t, "\n")
	r := classScopeRenderer(t)

	assert.Equal(t, "class-scope", r.Name())
	assert.Equal(t, "java", r.Language())
	assert.True(t, Applies(r, set))

	require.NoError(t, r.Render(context.Background(), set))
	assert.Len(t, set.Changed(), 1)
}

// A set whose root language is not the renderer's is returned byte for byte.
func TestFunc_LanguageGuard(t *testing.T) {
	set := NewSourceFileSet("kotlin", nil)
	_, err := set.AddFile(fooPath, generatedFoo("\r\n"))
	require.NoError(t, err)
	_, err = set.AddFile("example/FooKt.kt", "object FooKt {}\n")
	require.NoError(t, err)
	before := set.Snapshot()

	r := classScopeRenderer(t)
	assert.False(t, Applies(r, set))
	require.NoError(t, r.Render(context.Background(), set))

	if diff := cmp.Diff(before, set.Snapshot()); diff != "" {
		t.Errorf("file set changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, Stats{}, set.Stats())
}
