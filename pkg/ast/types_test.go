package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		name      string
		typeName  TypeName
		qualified string
		url       string
		nesting   []string
	}{
		{
			name:      "top level",
			typeName:  NewTypeName("example", nil, "Foo"),
			qualified: "example.Foo",
			url:       "type.googleapis.com/example.Foo",
		},
		{
			name:      "nested",
			typeName:  NewTypeName("example", []string{"Outer", "Middle"}, "Inner"),
			qualified: "example.Outer.Middle.Inner",
			url:       "type.googleapis.com/example.Outer.Middle.Inner",
			nesting:   []string{"Outer", "Middle"},
		},
		{
			name:      "no package",
			typeName:  NewTypeName("", nil, "Bare"),
			qualified: "Bare",
			url:       "type.googleapis.com/Bare",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.qualified, tt.typeName.QualifiedName())
			assert.Equal(t, tt.url, tt.typeName.TypeURL())
			assert.Equal(t, tt.nesting, tt.typeName.NestingTypeNames())
		})
	}
}

func TestTypeName_Comparable(t *testing.T) {
	a := NewTypeName("example", []string{"Outer"}, "Inner")
	b := NewTypeName("example", []string{"Outer"}, "Inner")
	assert.Equal(t, a, b)

	m := map[TypeName]int{a: 1}
	assert.Equal(t, 1, m[b])
}

func TestFieldID_IsZero(t *testing.T) {
	name := NewTypeName("example", nil, "Foo")
	assert.True(t, FieldID{}.IsZero())
	assert.True(t, FieldID{Type: name, File: "foo.proto"}.IsZero())
	assert.False(t, FieldID{Type: name, File: "foo.proto", Field: "uuid"}.IsZero())
}

func TestParseDirectives(t *testing.T) {
	t.Run("mixed comment", func(t *testing.T) {
		directives, err := ParseDirectives(" The name.\n @protoweave:annotation:Deprecated\n @protoweave:owner: team-a \n")
		require.NoError(t, err)
		assert.Equal(t, []Directive{
			{Option: "annotation", Value: "Deprecated"},
			{Option: "owner", Value: "team-a"},
		}, directives)
	})

	t.Run("block comment stars", func(t *testing.T) {
		directives, err := ParseDirectives("*\n * @protoweave:annotation:Nullable\n ")
		require.NoError(t, err)
		assert.Equal(t, []Directive{{Option: "annotation", Value: "Nullable"}}, directives)
	})

	t.Run("value with colons", func(t *testing.T) {
		d, err := ParseDirective("@protoweave:annotation:SuppressWarnings(\"a:b\")")
		require.NoError(t, err)
		assert.Equal(t, "SuppressWarnings(\"a:b\")", d.Value)
	})

	t.Run("not a directive", func(t *testing.T) {
		_, err := ParseDirective("just a comment")
		assert.ErrorIs(t, err, ErrNotDirective)
	})

	t.Run("missing value", func(t *testing.T) {
		_, err := ParseDirectives("@protoweave:annotation")
		assert.ErrorIs(t, err, ErrInvalidDirective)
	})

	t.Run("empty option", func(t *testing.T) {
		_, err := ParseDirective("@protoweave::value")
		assert.ErrorIs(t, err, ErrInvalidDirective)
	})
}

func TestParseDirective_EmptyValue(t *testing.T) {
	for _, line := range []string{
		"@protoweave:annotation:",
		"@protoweave:annotation:   ",
		" @protoweave:owner:\t",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := ParseDirective(line)
			assert.ErrorIs(t, err, ErrInvalidDirective)
		})
	}

	_, err := ParseDirectives(" Legacy id.\n @protoweave:annotation:\n")
	assert.ErrorIs(t, err, ErrInvalidDirective)
}
