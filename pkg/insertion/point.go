package insertion

import (
	"fmt"
	"strings"

	"github.com/platinummonkey/protoweave/pkg/text"
)

// Coordinate is the result of resolving an insertion point: a 0-based line or nowhere.
type Coordinate struct {
	line  int
	found bool
}

// Nowhere is the coordinate of an insertion point that is not present in the text
var Nowhere = Coordinate{}

// AtLine returns the coordinate of the given 0-based line.
// Negative lines are nowhere.
func AtLine(line int) Coordinate {
	if line < 0 {
		return Nowhere
	}
	return Coordinate{line: line, found: true}
}

// Line returns the line index and whether the point was found
func (c Coordinate) Line() (int, bool) {
	return c.line, c.found
}

// Found reports whether the coordinate points at a line
func (c Coordinate) Found() bool {
	return c.found
}

func (c Coordinate) String() string {
	if !c.found {
		return "nowhere"
	}
	return fmt.Sprintf("line %d", c.line)
}

// Point is a named anchor in generated text.
// Locate must be pure: the same text always yields the same coordinate.
type Point interface {
	Label() string
	Locate(text string) Coordinate
}

// Locate resolves a point against text. A nil point is nowhere.
func Locate(p Point, s string) Coordinate {
	if p == nil {
		return Nowhere
	}
	return p.Locate(s)
}

// FirstLine returns the coordinate of the first line accepted by match
func FirstLine(s string, match func(line string) bool) Coordinate {
	for i, line := range text.Lines(s) {
		if match(line) {
			return AtLine(i)
		}
	}
	return Nowhere
}

// FirstContaining returns the coordinate of the first line containing substr
func FirstContaining(s, substr string) Coordinate {
	return FirstLine(s, func(line string) bool {
		return strings.Contains(line, substr)
	})
}
