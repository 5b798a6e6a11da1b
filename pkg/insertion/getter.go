package insertion

import (
	"fmt"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/platinummonkey/protoweave/pkg/ast"
	"github.com/platinummonkey/protoweave/pkg/text"
)

const (
	getterLabelFormat = "getter-for:%s.%s"
	getterPrefix      = "get"

	patternCacheSize = 512
)

// patterns memoises compiled getter patterns by getter name.
var patterns = newPatternCache(patternCacheSize)

func newPatternCache(size int) *lru.Cache[string, *regexp.Regexp] {
	cache, err := lru.New[string, *regexp.Regexp](size)
	if err != nil {
		panic(fmt.Sprintf("insertion: pattern cache: %v", err))
	}
	return cache
}

// FieldGetter points at the line declaring the public getter of a field.
//
// The getter name is "get" followed by the CamelCase field name, and a line matches
// when it contains "public <anything> <getter>". When several lines match (overloads,
// or two messages in one file with a field of the same name) the first one wins.
type FieldGetter struct {
	field  ast.FieldID
	getter string
}

// NewFieldGetter creates a getter insertion point for the given field
func NewFieldGetter(field ast.FieldID) (*FieldGetter, error) {
	if field.IsZero() {
		return nil, fmt.Errorf("%w: field %+v", ErrInvalidIdentity, field)
	}
	return &FieldGetter{
		field:  field,
		getter: GetterName(field.Field),
	}, nil
}

// GetterName returns the Java getter name of a proto field, e.g. "getUserId" for "user_id"
func GetterName(field string) string {
	return getterPrefix + text.CamelCase(field)
}

// Label returns "getter-for:<type-url>.<field>"
func (g *FieldGetter) Label() string {
	return fmt.Sprintf(getterLabelFormat, g.field.Type.TypeURL(), g.field.Field)
}

// Field returns the field the getter belongs to
func (g *FieldGetter) Field() ast.FieldID {
	return g.field
}

// Locate finds the first line declaring the getter
func (g *FieldGetter) Locate(s string) Coordinate {
	pattern := getterPattern(g.getter)
	return FirstLine(s, pattern.MatchString)
}

func (g *FieldGetter) String() string {
	return g.Label()
}

func getterPattern(getter string) *regexp.Regexp {
	if p, ok := patterns.Get(getter); ok {
		return p
	}
	p := regexp.MustCompile("public .+ " + regexp.QuoteMeta(getter))
	patterns.Add(getter, p)
	return p
}
